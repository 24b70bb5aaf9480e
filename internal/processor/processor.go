// Package processor applies commands emitted by the settings views.
package processor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/allium/internal/events"
	"github.com/opencode-ai/allium/internal/logging"
	"github.com/opencode-ai/allium/internal/models"
)

// Processor errors.
var (
	ErrProcessorAlreadyRunning = errors.New("processor already running")
	ErrProcessorNotRunning     = errors.New("processor not running")
	ErrUnknownCommand          = errors.New("unknown command")
)

// Store persists settings snapshots under a command ID.
type Store interface {
	SaveStylesheet(ctx context.Context, commandID string, s models.Stylesheet) error
	SaveDisplaySettings(ctx context.Context, commandID string, d models.DisplaySettings) error
}

// Config contains processor configuration.
type Config struct {
	// SaveTimeout bounds a single store write.
	// Default: 5 seconds.
	SaveTimeout time.Duration

	// FlushTimeout bounds the drain of queued commands on Stop.
	// Default: 2 seconds.
	FlushTimeout time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		SaveTimeout:  5 * time.Second,
		FlushTimeout: 2 * time.Second,
	}
}

// ApplyEvent reports the outcome of one command.
type ApplyEvent struct {
	CommandID string
	Type      models.CommandType
	Success   bool
	Dropped   bool
	Error     string
	Timestamp time.Time
	Duration  time.Duration
}

// Stats contains processor statistics.
type Stats struct {
	Running       bool
	StartedAt     *time.Time
	Total         int64
	Applied       int64
	Failed        int64
	Dropped       int64
	LastAppliedAt *time.Time
}

// StylesheetFunc is called after a stylesheet has been persisted.
type StylesheetFunc func(models.Stylesheet)

// Processor persists save commands in arrival order. View-local commands
// that escape the view tree are dropped and recorded in the command log.
type Processor struct {
	config Config
	store  Store
	events events.Repository
	logger zerolog.Logger

	mu       sync.Mutex
	running  bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	commands <-chan models.Command

	subMu       sync.RWMutex
	subscribers map[string]StylesheetFunc

	stats   Stats
	statsMu sync.RWMutex
	applyCh chan ApplyEvent
}

// New creates a Processor. events may be nil, in which case dropped commands
// are only logged.
func New(config Config, store Store, repo events.Repository) *Processor {
	if config.SaveTimeout <= 0 {
		config.SaveTimeout = DefaultConfig().SaveTimeout
	}
	if config.FlushTimeout <= 0 {
		config.FlushTimeout = DefaultConfig().FlushTimeout
	}
	return &Processor{
		config:      config,
		store:       store,
		events:      repo,
		logger:      logging.Component("processor"),
		subscribers: make(map[string]StylesheetFunc),
		applyCh:     make(chan ApplyEvent, 100),
	}
}

// Start consumes commands until Stop is called or ctx is cancelled.
func (p *Processor) Start(ctx context.Context, commands <-chan models.Command) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrProcessorAlreadyRunning
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.commands = commands
	p.running = true

	now := time.Now().UTC()
	p.statsMu.Lock()
	p.stats.Running = true
	p.stats.StartedAt = &now
	p.statsMu.Unlock()

	p.logger.Info().Dur("save_timeout", p.config.SaveTimeout).Msg("processor starting")

	p.wg.Add(1)
	go p.runLoop()
	return nil
}

// Stop halts the processor after flushing queued commands.
func (p *Processor) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return ErrProcessorNotRunning
	}
	p.cancel()
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()

	p.statsMu.Lock()
	p.stats.Running = false
	p.statsMu.Unlock()

	p.logger.Info().Msg("processor stopped")
	return nil
}

// Subscribe registers fn to receive persisted stylesheets. Registering the
// same name again replaces the callback.
func (p *Processor) Subscribe(name string, fn StylesheetFunc) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	p.subscribers[name] = fn
}

// Unsubscribe removes a subscriber.
func (p *Processor) Unsubscribe(name string) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	delete(p.subscribers, name)
}

// Stats returns current processor statistics.
func (p *Processor) Stats() Stats {
	p.statsMu.RLock()
	defer p.statsMu.RUnlock()
	return p.stats
}

// ApplyEvents returns the channel of apply outcomes. Events are dropped when
// nobody reads.
func (p *Processor) ApplyEvents() <-chan ApplyEvent {
	return p.applyCh
}

func (p *Processor) runLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			p.flush()
			return
		case cmd, ok := <-p.commands:
			if !ok {
				return
			}
			_ = p.Process(p.ctx, cmd)
		}
	}
}

// flush applies whatever is still buffered so a save issued right before
// shutdown is not lost.
func (p *Processor) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.FlushTimeout)
	defer cancel()

	for {
		select {
		case cmd, ok := <-p.commands:
			if !ok {
				return
			}
			_ = p.Process(ctx, cmd)
		default:
			return
		}
	}
}

// Process applies a single command and returns the store error, if any.
func (p *Processor) Process(ctx context.Context, cmd models.Command) error {
	id := models.NewCommandID()
	start := time.Now()
	event := ApplyEvent{CommandID: id, Type: cmd.Type, Timestamp: start.UTC()}

	err := p.apply(ctx, id, cmd)
	event.Duration = time.Since(start)
	switch {
	case errors.Is(err, errDropped):
		event.Dropped = true
		err = nil
	case err != nil:
		event.Error = err.Error()
		p.logger.Error().Err(err).Str("command_id", id).Str("command", string(cmd.Type)).Msg("failed to apply command")
		if p.events != nil {
			if logErr := events.LogError(ctx, p.events, string(cmd.Type), err); logErr != nil {
				p.logger.Warn().Err(logErr).Msg("failed to record command error")
			}
		}
	default:
		event.Success = true
		p.logger.Debug().Str("command_id", id).Str("command", string(cmd.Type)).Dur("duration", event.Duration).Msg("command applied")
	}

	p.record(event)
	return err
}

var errDropped = errors.New("command dropped")

func (p *Processor) apply(ctx context.Context, id string, cmd models.Command) error {
	saveCtx, cancel := context.WithTimeout(ctx, p.config.SaveTimeout)
	defer cancel()

	switch cmd.Type {
	case models.CommandSaveStylesheet:
		if cmd.Stylesheet == nil {
			return fmt.Errorf("%s: missing stylesheet", cmd.Type)
		}
		stylesheet := *cmd.Stylesheet
		if err := p.store.SaveStylesheet(saveCtx, id, stylesheet); err != nil {
			return err
		}
		p.notify(stylesheet)
		return nil

	case models.CommandSaveDisplaySettings:
		if cmd.DisplaySettings == nil {
			return fmt.Errorf("%s: missing display settings", cmd.Type)
		}
		return p.store.SaveDisplaySettings(saveCtx, id, *cmd.DisplaySettings)

	case models.CommandValueChanged, models.CommandCloseView:
		p.logger.Warn().Str("command_id", id).Str("command", cmd.String()).Msg("dropping view-local command")
		if p.events != nil {
			if err := events.LogCommandDropped(ctx, p.events, id, cmd.Type, "view-local command reached the processor"); err != nil {
				p.logger.Warn().Err(err).Msg("failed to record dropped command")
			}
		}
		return errDropped

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
}

// notify calls subscribers in name order so delivery is deterministic.
func (p *Processor) notify(stylesheet models.Stylesheet) {
	p.subMu.RLock()
	names := make([]string, 0, len(p.subscribers))
	for name := range p.subscribers {
		names = append(names, name)
	}
	sort.Strings(names)
	fns := make([]StylesheetFunc, 0, len(names))
	for _, name := range names {
		fns = append(fns, p.subscribers[name])
	}
	p.subMu.RUnlock()

	for _, fn := range fns {
		fn(stylesheet)
	}
}

func (p *Processor) record(event ApplyEvent) {
	p.statsMu.Lock()
	p.stats.Total++
	switch {
	case event.Dropped:
		p.stats.Dropped++
	case event.Success:
		p.stats.Applied++
		now := event.Timestamp
		p.stats.LastAppliedAt = &now
	default:
		p.stats.Failed++
	}
	p.statsMu.Unlock()

	select {
	case p.applyCh <- event:
	default:
	}
}
