package drop

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

type State int

const (
	StateAnnounced State = iota
	StateActive
	StateResolved
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateAnnounced:
		return "announced"
	case StateActive:
		return "active"
	case StateResolved:
		return "resolved"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Verdict is what happened to a single reaction.
type Verdict string

const (
	VerdictIgnored        Verdict = "ignored"
	VerdictCooldown       Verdict = "cooldown"
	VerdictAlreadyClaimed Verdict = "already_claimed"
	VerdictOutOfStock     Verdict = "out_of_stock"
	VerdictFailed         Verdict = "failed"
	VerdictClaimed        Verdict = "claimed"
	// VerdictDropped marks a reaction discarded because its session fell behind.
	VerdictDropped Verdict = "dropped"
)

// ReactionEvent is a reaction added to a drop message.
type ReactionEvent struct {
	MessageID snowflake.ID
	UserID    snowflake.ID
	Symbol    string
	IsBot     bool
	At        time.Time
}

type pendingNotice struct {
	notice ClaimNotice
	due    time.Time
}

// Session is one in-flight drop. Everything but the identifiers is owned by the
// session's goroutine; read State and Claims only after Done is closed.
type Session struct {
	MessageID snowflake.ID
	ChannelID snowflake.ID
	DropperID snowflake.ID
	StartedAt time.Time

	cards       []DroppedCard
	bySymbol    map[string]int
	claimedBy   map[string]snowflake.ID
	claimers    map[snowflake.ID]string
	challengers map[string][]snowflake.ID
	pending     []pendingNotice
	state       State

	events chan ReactionEvent
	done   chan struct{}
}

func newSession(messageID, channelID, dropperID snowflake.ID, startedAt time.Time, cards []DroppedCard, buffer int) *Session {
	s := &Session{
		MessageID:   messageID,
		ChannelID:   channelID,
		DropperID:   dropperID,
		StartedAt:   startedAt,
		cards:       cards,
		bySymbol:    make(map[string]int, len(cards)),
		claimedBy:   make(map[string]snowflake.ID, len(cards)),
		claimers:    make(map[snowflake.ID]string, len(cards)),
		challengers: make(map[string][]snowflake.ID, len(cards)),
		state:       StateActive,
		events:      make(chan ReactionEvent, buffer),
		done:        make(chan struct{}),
	}
	for i, c := range cards {
		s.bySymbol[c.Symbol] = i
	}
	return s
}

func (s *Session) Cards() []DroppedCard {
	out := make([]DroppedCard, len(s.cards))
	copy(out, s.cards)
	return out
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) State() State {
	return s.state
}

// Claims maps each claimed symbol to its winner.
func (s *Session) Claims() map[string]snowflake.ID {
	out := make(map[string]snowflake.ID, len(s.claimedBy))
	for sym, user := range s.claimedBy {
		out[sym] = user
	}
	return out
}

func (s *Session) complete() bool {
	return len(s.claimedBy) == len(s.cards)
}

func (s *Session) addChallenger(symbol string, userID snowflake.ID) {
	for _, id := range s.challengers[symbol] {
		if id == userID {
			return
		}
	}
	s.challengers[symbol] = append(s.challengers[symbol], userID)
}

func (s *Session) foughtOff(symbol string, winner snowflake.ID) []snowflake.ID {
	var out []snowflake.ID
	for _, id := range s.challengers[symbol] {
		if id != winner {
			out = append(out, id)
		}
	}
	return out
}

// takeDue removes and returns the notices due at now, or all of them when all is set.
func (s *Session) takeDue(now time.Time, all bool) []ClaimNotice {
	var (
		due  []ClaimNotice
		keep []pendingNotice
	)
	for _, p := range s.pending {
		if all || !p.due.After(now) {
			n := p.notice
			n.FoughtOff = s.foughtOff(n.Card.Symbol, n.WinnerID)
			due = append(due, n)
			continue
		}
		keep = append(keep, p)
	}
	s.pending = keep
	return due
}

func (s *Session) nextDue() (time.Time, bool) {
	if len(s.pending) == 0 {
		return time.Time{}, false
	}
	next := s.pending[0].due
	for _, p := range s.pending[1:] {
		if p.due.Before(next) {
			next = p.due
		}
	}
	return next, true
}
