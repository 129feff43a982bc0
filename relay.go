// Package relay implements a Telegram conversational relay: incoming text is
// answered by an OpenAI-compatible completion provider with a rolling window
// of per-user conversation memory, photos are described by the vision model,
// and image generation is gated by a per-user daily quota.
package relay

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config carries the prompt, limits and allow-list of a Relay instance.
type Config struct {
	SystemPrompt    string
	ContextWindow   int
	DailyImageLimit int
	AdminIDs        []int64
	RequestTimeout  time.Duration
}

// Relay wires the Telegram transport, the durable store and the generation
// provider together.
type Relay struct {
	ctx      context.Context
	logger   *zap.Logger
	db       *gorm.DB
	provider Provider
	bot      *bot.Bot
	botToken string
	config   Config
	now      func() time.Time
}

// New creates a Relay. Every collaborator is injected; the package keeps no
// global state.
func New(ctx context.Context, logger *zap.Logger, provider Provider, db *gorm.DB, botToken string, cfg Config) *Relay {
	return &Relay{
		ctx:      ctx,
		logger:   logger.Named("Relay"),
		db:       db,
		provider: provider,
		botToken: botToken,
		config:   cfg,
		now:      time.Now,
	}
}

// Start connects to Telegram, migrates the store and begins polling. The
// returned channel closes when polling stops.
func (r *Relay) Start() (<-chan struct{}, error) {
	if err := r.setupBot(); err != nil {
		return nil, err
	}

	if err := r.setupDB(); err != nil {
		return nil, err
	}

	closeCh := make(chan struct{})
	go func() {
		r.bot.Start(r.ctx)
		close(closeCh)
	}()

	return closeCh, nil
}

// today is the calendar date quota counters apply to.
func (r *Relay) today() string {
	return r.now().Format(time.DateOnly)
}

// providerContext bounds a remote-provider call. A timeout is treated the
// same as any provider failure by the callers.
func (r *Relay) providerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.config.RequestTimeout)
}
