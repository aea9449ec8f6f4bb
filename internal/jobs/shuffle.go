// Package jobs runs the periodic catalog reshuffle, either in process or
// through an asynq queue.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/sudo-init-do/bazaar/internal/catalog"
	"github.com/sudo-init-do/bazaar/internal/logx"
)

// Shuffler reorders the vendors of the registered verticals.
type Shuffler struct {
	registry *catalog.Registry
	seed     func() int64
}

func NewShuffler(registry *catalog.Registry) *Shuffler {
	return &Shuffler{
		registry: registry,
		seed:     func() int64 { return time.Now().UnixNano() },
	}
}

// Shuffle reorders one vertical, or every vertical when vertical is empty.
// A zero seed picks a fresh one.
func (s *Shuffler) Shuffle(vertical catalog.Vertical, seed int64) error {
	if seed == 0 {
		seed = s.seed()
	}
	if vertical == "" {
		for _, store := range s.registry.All() {
			s.dispatch(store, seed)
		}
		return nil
	}
	store, ok := s.registry.Store(vertical)
	if !ok {
		return fmt.Errorf("unknown vertical %q", vertical)
	}
	s.dispatch(store, seed)
	return nil
}

func (s *Shuffler) dispatch(store *catalog.Store, seed int64) {
	next := store.Dispatch(catalog.Shuffle{Seed: seed})
	logx.Debug().Str("vertical", string(next.Vertical)).Uint64("version", next.Version).Int64("seed", seed).Msg("catalog shuffled")
}

// Scheduler fires the reshuffle until ctx is cancelled.
type Scheduler interface {
	Run(ctx context.Context) error
}
