package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/allium/internal/logging"
)

// EventDeleter removes command-log entries older than a cutoff.
type EventDeleter interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Pruner trims the command log on a cron schedule.
type Pruner struct {
	events    EventDeleter
	retention time.Duration
	schedule  cron.Schedule
	logger    zerolog.Logger
	now       func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPruner parses expr (standard five-field cron or a descriptor such as
// "@daily"). A retention of zero disables pruning.
func NewPruner(events EventDeleter, retention time.Duration, expr string) (*Pruner, error) {
	if retention < 0 {
		return nil, fmt.Errorf("retention must not be negative: %s", retention)
	}
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", expr, err)
	}
	return &Pruner{
		events:    events,
		retention: retention,
		schedule:  schedule,
		logger:    logging.Component("pruner"),
		now:       time.Now,
	}, nil
}

// Next returns the first run after t.
func (p *Pruner) Next(t time.Time) time.Time {
	return p.schedule.Next(t)
}

// PruneOnce deletes entries older than the retention window.
func (p *Pruner) PruneOnce(ctx context.Context) (int64, error) {
	if p.retention == 0 {
		return 0, nil
	}
	cutoff := p.now().Add(-p.retention)
	n, err := p.events.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	p.logger.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("command log pruned")
	return n, nil
}

// Start runs PruneOnce on every scheduled tick until Stop.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return fmt.Errorf("pruner already started")
	}
	if p.retention == 0 {
		p.logger.Debug().Msg("retention disabled, pruner not started")
		return nil
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go p.loop(ctx)

	p.logger.Info().Dur("retention", p.retention).Time("next_run", p.Next(p.now())).Msg("pruner started")
	return nil
}

// Stop halts the schedule and waits for a running prune to finish.
func (p *Pruner) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	p.cancel = nil
	p.mu.Unlock()
}

func (p *Pruner) loop(ctx context.Context) {
	defer p.wg.Done()

	for {
		wait := p.Next(p.now()).Sub(p.now())
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if _, err := p.PruneOnce(ctx); err != nil {
				p.logger.Error().Err(err).Msg("failed to prune command log")
			}
		}
	}
}
