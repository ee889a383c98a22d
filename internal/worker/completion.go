// Package worker runs the background jobs of the reservation system. The
// only job today is the completion sweep, which retires confirmed
// reservations whose window has fully elapsed.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"condo/config"
)

// Sweeper is the slice of the reservation service the worker needs.
type Sweeper interface {
	SweepCompletions(ctx context.Context) (int, error)
}

// Completion periodically moves elapsed confirmed reservations to completed.
type Completion struct {
	sweeper  Sweeper
	interval time.Duration
}

func NewCompletion(sweeper Sweeper, cfg *config.Config) *Completion {
	interval := time.Duration(cfg.Scheduler.CompletionIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	return &Completion{
		sweeper:  sweeper,
		interval: interval,
	}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
// A failed sweep is logged and retried on the next tick.
func (c *Completion) Run(ctx context.Context) {
	log.Info().Dur("interval", c.interval).Msg("completion sweep started")

	c.sweep(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("completion sweep stopped")

			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *Completion) sweep(ctx context.Context) {
	completed, err := c.sweeper.SweepCompletions(ctx)
	if err != nil {
		log.Error().Err(err).Msg("completion sweep failed")

		return
	}

	if completed > 0 {
		log.Info().Int("completed", completed).Msg("completion sweep finished")
	}
}
