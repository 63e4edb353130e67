// Package cards supplies the trading cards shown by the tagger.
//
// A Catalog is built once at startup by Initialize, from an on-disk cache
// or, when the cache is cold, from the remote catalog API through Client.
// Draws are uniform and safe for concurrent use.
package cards
