// Package tagger serves the card tagging page over net/http.
//
// Each browser gets a session, identified by a cookie, holding its form rows
// and the card on screen. Events for one session run one at a time. The
// page posts plain HTML forms to <route>/apply; the same events are exposed
// as JSON endpoints under the route path for scripted clients.
package tagger
