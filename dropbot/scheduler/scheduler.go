package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/logger"
	"github.com/robfig/cron/v3"
)

const (
	pruneCooldownsSpec   = "0 */5 * * * *"
	expireTradesSpec     = "30 * * * * *"
	refreshStandingsSpec = "0 0 * * * *"
)

type CooldownPruner interface {
	Prune(now time.Time) int
}

type TradeExpirer interface {
	ExpireStale(ctx context.Context, now time.Time) (int, error)
}

type StandingsCache interface {
	Forget()
}

// Jobs are the periodic chores. Nil members are skipped.
type Jobs struct {
	Cooldowns CooldownPruner
	Trades    TradeExpirer
	Standings StandingsCache
}

type Scheduler struct {
	cron *cron.Cron
	jobs Jobs
	now  func() time.Time
}

func New(jobs Jobs) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		jobs: jobs,
		now:  time.Now,
	}

	if jobs.Cooldowns != nil {
		if _, err := s.cron.AddFunc(pruneCooldownsSpec, func() { s.PruneCooldowns() }); err != nil {
			return nil, fmt.Errorf("failed to schedule cooldown pruning: %w", err)
		}
	}
	if jobs.Trades != nil {
		if _, err := s.cron.AddFunc(expireTradesSpec, func() { s.ExpireTrades(context.Background()) }); err != nil {
			return nil, fmt.Errorf("failed to schedule trade expiry: %w", err)
		}
	}
	if jobs.Standings != nil {
		if _, err := s.cron.AddFunc(refreshStandingsSpec, func() { s.jobs.Standings.Forget() }); err != nil {
			return nil, fmt.Errorf("failed to schedule leaderboard refresh: %w", err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.LogSystem("Scheduler started", slog.Int("jobs", len(s.cron.Entries())))
}

// Stop halts the schedule and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// PruneCooldowns drops cooldown entries that already elapsed.
func (s *Scheduler) PruneCooldowns() int {
	removed := s.jobs.Cooldowns.Prune(s.now())
	if removed > 0 {
		slog.Debug("Pruned cooldowns", slog.String("type", "sys"), slog.Int("removed", removed))
	}
	return removed
}

// ExpireTrades closes audit rows for offers that outlived their deadline, including those
// orphaned by a restart.
func (s *Scheduler) ExpireTrades(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	n, err := s.jobs.Trades.ExpireStale(ctx, s.now())
	if err != nil {
		logger.LogError("Failed to expire stale trades", err)
		return 0
	}
	if n > 0 {
		logger.LogSystem("Expired stale trades", slog.Int("count", n))
	}
	return n
}
