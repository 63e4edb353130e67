// Package submission assembles a completed tagging form into a log record
// and drives the submit transition: persist, reset, draw the next card.
package submission
