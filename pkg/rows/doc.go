// Package rows turns verb sentence templates into ordered row elements:
// literal text interleaved with one input per placeholder occurrence.
//
// Field ids are deterministic for a given (verb, row id) pair. Repeated
// placeholders are told apart by a 1-based occurrence number, so the
// "search" template yields location-1 and location-2.
package rows
