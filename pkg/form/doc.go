// Package form implements the per-session row state machine of the tagger.
//
// Each row moves from Empty to VerbSelected when a verb is chosen; choosing
// a verb replaces the row's fields wholesale with a fresh render of the
// verb's template. The form keeps an explicit index from input name to row
// and position, so field updates never scan rows or parse identifiers.
// Every structural transition returns a Delta describing the change.
package form
