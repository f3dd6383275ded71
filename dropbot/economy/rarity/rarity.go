package rarity

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

const drawCeiling = 100

var (
	ErrEmptyTable     = errors.New("rarity table has no tiers")
	ErrWeightOverflow = errors.New("rarity weights sum to more than 100")
)

// Tier is one rarity level. Tiers are declared from most common to rarest.
type Tier struct {
	Name   string `toml:"name" validate:"required"`
	Weight int    `toml:"weight" validate:"gte=0,lte=100"`
	Points int    `toml:"points" validate:"gte=0"`
	Refund int64  `toml:"refund" validate:"gte=0"`
	Color  int    `toml:"color"`
	// Cap limits how many copies of one (name, variant) may ever be issued at this tier.
	// Only honored on the rarest tier; zero means unlimited.
	Cap int `toml:"cap" validate:"gte=0"`
}

type Table []Tier

func DefaultTable() Table {
	return Table{
		{Name: "Common", Weight: 60, Points: 1, Refund: 10, Color: 0x808080},
		{Name: "Rare", Weight: 25, Points: 3, Refund: 25, Color: 0x3498DB},
		{Name: "Epic", Weight: 10, Points: 5, Refund: 50, Color: 0x9B59B6},
		{Name: "Legendary", Weight: 4, Points: 10, Refund: 100, Color: 0xFFD700},
		{Name: "Mythic", Weight: 1, Points: 25, Refund: 250, Color: 0xFF4F9A, Cap: 1},
	}
}

func (t Table) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTable
	}
	seen := make(map[string]bool, len(t))
	sum := 0
	for _, tier := range t {
		if tier.Name == "" {
			return errors.New("rarity tier without a name")
		}
		key := strings.ToLower(tier.Name)
		if seen[key] {
			return fmt.Errorf("duplicate rarity tier %q", tier.Name)
		}
		seen[key] = true
		if tier.Weight < 0 {
			return fmt.Errorf("rarity tier %q has negative weight", tier.Name)
		}
		sum += tier.Weight
	}
	if sum > drawCeiling {
		return fmt.Errorf("%w: got %d", ErrWeightOverflow, sum)
	}
	return nil
}

func (t Table) Lowest() Tier {
	return t[0]
}

func (t Table) Rarest() Tier {
	return t[len(t)-1]
}

func (t Table) Lookup(name string) (Tier, bool) {
	for _, tier := range t {
		if strings.EqualFold(tier.Name, name) {
			return tier, true
		}
	}
	return Tier{}, false
}

// tierForDraw walks tiers in declaration order; the first whose cumulative weight reaches draw wins.
func (t Table) tierForDraw(draw int, excludeRarest bool) Tier {
	limit := len(t)
	if excludeRarest {
		limit--
	}
	cumulative := 0
	for _, tier := range t[:limit] {
		cumulative += tier.Weight
		if cumulative >= draw {
			return tier
		}
	}
	return t.Lowest()
}

// IssuedCounter reports how many copies of a card were ever issued at a tier.
type IssuedCounter interface {
	IssuedCount(ctx context.Context, name, rarity, variant string) (int, error)
}

type Assigner struct {
	table   Table
	counter IssuedCounter

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAssigner validates the table. counter may be nil to disable the scarcity cap,
// rng may be nil to use a time seeded source.
func NewAssigner(table Table, counter IssuedCounter, rng *rand.Rand) (*Assigner, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Assigner{table: table, counter: counter, rng: rng}, nil
}

func (a *Assigner) Table() Table {
	return a.table
}

func (a *Assigner) draw() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.IntN(drawCeiling) + 1
}

// Roll draws a tier without consulting the scarcity cap.
func (a *Assigner) Roll() Tier {
	return a.table.tierForDraw(a.draw(), false)
}

// Assign draws a tier for one dropped card. When the rarest tier is capped and the cap
// is already reached for this card, the draw is repeated without that tier.
func (a *Assigner) Assign(ctx context.Context, name, variant string) (Tier, error) {
	tier := a.Roll()

	rarest := a.table.Rarest()
	if tier.Name != rarest.Name || rarest.Cap <= 0 || a.counter == nil || len(a.table) == 1 {
		return tier, nil
	}

	issued, err := a.counter.IssuedCount(ctx, name, rarest.Name, variant)
	if err != nil {
		return Tier{}, fmt.Errorf("failed to check scarcity of %s: %w", name, err)
	}
	if issued < rarest.Cap {
		return tier, nil
	}
	return a.table.tierForDraw(a.draw(), true), nil
}
