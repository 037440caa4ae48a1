package gameserver

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dmbot/internal/game/world"
)

// SaveAll persists every logged-in player under the dispatcher lock.
func (d *Dispatcher) SaveAll(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.world.SaveAll(ctx)
}

// StartAutosave saves the world every interval until ctx is cancelled.
//
// Precondition: interval must be > 0.
func (d *Dispatcher) StartAutosave(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		panic("gameserver.StartAutosave: interval must be > 0")
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.autosave(ctx)
			}
		}
	}()
}

func (d *Dispatcher) autosave(ctx context.Context) {
	if err := d.SaveAll(ctx); err != nil {
		d.logger.Warn("autosave incomplete", zap.Strings("failed", world.FailedSaves(err)), zap.Error(err))
		return
	}
	d.logger.Debug("autosave complete")
}
