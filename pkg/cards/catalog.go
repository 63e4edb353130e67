package cards

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
)

// ErrCardUnavailable is returned when no card can be drawn, either because
// the catalog is empty or its backing source could not be loaded.
var ErrCardUnavailable = errors.New("cards: card unavailable")

// Card is the subset of a catalog card the tagger displays and logs.
type Card struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
}

// Provider supplies pseudo-random cards.
type Provider interface {
	DrawRandomCard() (Card, error)
}

// Catalog is an in-memory card collection. The card list is read-only after
// construction; draws are safe for concurrent use.
type Catalog struct {
	cards []Card

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCatalog builds a catalog over a copy of cards. A nil rng uses the
// package-level generator.
func NewCatalog(cards []Card, rng *rand.Rand) *Catalog {
	return &Catalog{
		cards: append([]Card(nil), cards...),
		rng:   rng,
	}
}

// DrawRandomCard returns a uniformly chosen card.
func (c *Catalog) DrawRandomCard() (Card, error) {
	if c == nil || len(c.cards) == 0 {
		return Card{}, fmt.Errorf("%w: catalog is empty", ErrCardUnavailable)
	}
	return c.cards[c.intN(len(c.cards))], nil
}

// Len returns the number of cards in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.cards)
}

// Cards returns a copy of the catalog contents.
func (c *Catalog) Cards() []Card {
	if c == nil {
		return nil
	}
	return append([]Card(nil), c.cards...)
}

func (c *Catalog) intN(n int) int {
	if c.rng == nil {
		return rand.IntN(n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.IntN(n)
}
