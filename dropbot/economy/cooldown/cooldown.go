package cooldown

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/disgoorg/snowflake/v2"
)

type Action string

const (
	ActionDrop  Action = "drop"
	ActionClaim Action = "claim"
)

// BypassItem is the consumable that lets a user act while the action is cooling down.
func BypassItem(action Action) string {
	switch action {
	case ActionDrop:
		return config.ItemExtraDrop
	case ActionClaim:
		return config.ItemExtraClaim
	default:
		return ""
	}
}

type OnCooldownError struct {
	Action    Action
	Remaining time.Duration
}

func (e *OnCooldownError) Error() string {
	return fmt.Sprintf("%s on cooldown for %s", e.Action, FormatRemaining(e.Remaining))
}

// Decision is the result of checking one user against one action's cooldown.
type Decision struct {
	Ready     bool
	Remaining time.Duration
	// BypassItem is set when the user is cooling down and may spend this item instead.
	BypassItem string
}

// Tracker keeps the last time each user performed each action. State lives only in memory.
type Tracker struct {
	mu        sync.Mutex
	durations map[Action]time.Duration
	last      map[Action]map[snowflake.ID]time.Time
}

func NewTracker(durations map[Action]time.Duration) *Tracker {
	t := &Tracker{
		durations: make(map[Action]time.Duration, len(durations)),
		last:      make(map[Action]map[snowflake.ID]time.Time, len(durations)),
	}
	for action, d := range durations {
		t.durations[action] = d
		t.last[action] = make(map[snowflake.ID]time.Time)
	}
	return t
}

func (t *Tracker) Duration(action Action) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.durations[action]
}

func (t *Tracker) IsReady(userID snowflake.ID, action Action, now time.Time) (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.last[action][userID]
	if !ok {
		return true, 0
	}
	next := last.Add(t.durations[action])
	if now.Before(next) {
		return false, next.Sub(now)
	}
	return true, 0
}

func (t *Tracker) Check(userID snowflake.ID, action Action, now time.Time) Decision {
	ready, remaining := t.IsReady(userID, action, now)
	if ready {
		return Decision{Ready: true}
	}
	return Decision{Remaining: remaining, BypassItem: BypassItem(action)}
}

func (t *Tracker) Record(userID snowflake.ID, action Action, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	users, ok := t.last[action]
	if !ok {
		users = make(map[snowflake.ID]time.Time)
		t.last[action] = users
	}
	users[userID] = now
}

// TryRecord stamps now when the user is ready and otherwise reports the wait, in one step.
func (t *Tracker) TryRecord(userID snowflake.ID, action Action, now time.Time) Decision {
	t.mu.Lock()
	defer t.mu.Unlock()

	users, ok := t.last[action]
	if !ok {
		users = make(map[snowflake.ID]time.Time)
		t.last[action] = users
	}
	if last, seen := users[userID]; seen {
		if next := last.Add(t.durations[action]); now.Before(next) {
			return Decision{Remaining: next.Sub(now), BypassItem: BypassItem(action)}
		}
	}
	users[userID] = now
	return Decision{Ready: true}
}

func (t *Tracker) Reset(userID snowflake.ID, action Action) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.last[action], userID)
}

// Prune forgets entries whose cooldown already elapsed and returns how many were removed.
func (t *Tracker) Prune(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for action, users := range t.last {
		d := t.durations[action]
		for userID, last := range users {
			if !now.Before(last.Add(d)) {
				delete(users, userID)
				removed++
			}
		}
	}
	return removed
}

// FormatRemaining renders a wait as "1h 5m 3s", dropping leading zero units.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64((d + time.Second - 1) / time.Second)
	h, m, s := secs/3600, secs%3600/60, secs%60

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if h > 0 || m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	parts = append(parts, fmt.Sprintf("%ds", s))
	return strings.Join(parts, " ")
}
