// Package catalog holds the immutable set of card templates cards are dropped from.
package catalog

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
)

const DefaultVariant = "base"

var ErrEmptyCatalog = errors.New("card catalog is empty")

type Card struct {
	Name    string `json:"name" bson:"name"`
	Group   string `json:"group" bson:"group"`
	Variant string `json:"variant" bson:"variant"`
	Image   string `json:"image" bson:"image"`
}

func (c Card) Display() string {
	if c.Group == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Group)
}

type Catalog struct {
	cards []Card

	mu  sync.Mutex
	rng *rand.Rand
}

// New validates the templates and fills in defaults. rng may be nil.
func New(cards []Card, rng *rand.Rand) (*Catalog, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyCatalog
	}
	normalized := make([]Card, 0, len(cards))
	for i, card := range cards {
		card.Name = strings.TrimSpace(card.Name)
		if card.Name == "" {
			return nil, fmt.Errorf("card #%d has no name", i)
		}
		if card.Variant == "" {
			card.Variant = DefaultVariant
		}
		normalized = append(normalized, card)
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	}
	return &Catalog{cards: normalized, rng: rng}, nil
}

func (c *Catalog) Len() int {
	return len(c.cards)
}

func (c *Catalog) Cards() []Card {
	out := make([]Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// Pick returns n templates chosen uniformly at random. Templates are distinct while the
// catalog holds at least n of them; smaller catalogs repeat templates.
func (c *Catalog) Pick(n int) []Card {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Card, 0, n)
	if len(c.cards) >= n {
		for _, i := range c.rng.Perm(len(c.cards))[:n] {
			out = append(out, c.cards[i])
		}
		return out
	}
	for len(out) < n {
		out = append(out, c.cards[c.rng.IntN(len(c.cards))])
	}
	return out
}

func (c *Catalog) Lookup(name string) (Card, bool) {
	for _, card := range c.cards {
		if strings.EqualFold(card.Name, strings.TrimSpace(name)) {
			return card, true
		}
	}
	return Card{}, false
}

type cardSource []Card

func (s cardSource) String(i int) string { return s[i].Name + " " + s[i].Group }
func (s cardSource) Len() int            { return len(s) }

// Search ranks templates by fuzzy match on name and group. Exact name matches come first.
func (c *Catalog) Search(query string, limit int) []Card {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	var out []Card
	if exact, ok := c.Lookup(query); ok {
		out = append(out, exact)
	}
	for _, match := range fuzzy.FindFrom(query, cardSource(c.cards)) {
		if limit > 0 && len(out) >= limit {
			break
		}
		card := c.cards[match.Index]
		if len(out) > 0 && out[0] == card {
			continue
		}
		out = append(out, card)
	}
	return out
}
