// Package journal is the append-only JSON-lines log tag submissions are
// written to.
package journal
