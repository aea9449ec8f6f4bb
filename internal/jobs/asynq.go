package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sudo-init-do/bazaar/internal/catalog"
	"github.com/sudo-init-do/bazaar/internal/logx"
)

const (
	TaskShuffle  = "catalog:shuffle"
	QueueCatalog = "catalog"
)

// ShufflePayload selects the vertical to reshuffle; empty means all of them.
type ShufflePayload struct {
	Vertical    catalog.Vertical `json:"vertical,omitempty"`
	Seed        int64            `json:"seed,omitempty"`
	RequestedAt time.Time        `json:"requested_at"`
}

func NewShuffleTask(p ShufflePayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskShuffle, b, asynq.Queue(QueueCatalog), asynq.MaxRetry(1)), nil
}

// AsynqScheduler registers the reshuffle as a periodic asynq task and serves
// it on this instance.
type AsynqScheduler struct {
	Shuffler *Shuffler
	Interval time.Duration
	Redis    asynq.RedisConnOpt
}

// NewAsynqScheduler parses a redis:// URL into asynq connection options.
func NewAsynqScheduler(shuffler *Shuffler, interval time.Duration, redisURL string) (*AsynqScheduler, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &AsynqScheduler{Shuffler: shuffler, Interval: interval, Redis: opt}, nil
}

func (a *AsynqScheduler) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskShuffle, a.handleShuffle)
	return mux
}

func (a *AsynqScheduler) Run(ctx context.Context) error {
	task, err := NewShuffleTask(ShufflePayload{})
	if err != nil {
		return err
	}

	scheduler := asynq.NewScheduler(a.Redis, &asynq.SchedulerOpts{Location: time.UTC})
	entryID, err := scheduler.Register("@every "+a.Interval.String(), task)
	if err != nil {
		return fmt.Errorf("register shuffle task: %w", err)
	}

	server := asynq.NewServer(a.Redis, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{QueueCatalog: 1},
	})
	if err := server.Start(a.Mux()); err != nil {
		return fmt.Errorf("start asynq server: %w", err)
	}
	if err := scheduler.Start(); err != nil {
		server.Shutdown()
		return fmt.Errorf("start asynq scheduler: %w", err)
	}
	logx.Info().Str("entry", entryID).Dur("interval", a.Interval).Msg("catalog shuffle scheduled on asynq")

	<-ctx.Done()
	scheduler.Shutdown()
	server.Shutdown()
	return nil
}

func (a *AsynqScheduler) handleShuffle(_ context.Context, t *asynq.Task) error {
	var p ShufflePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if err := a.Shuffler.Shuffle(p.Vertical, p.Seed); err != nil {
		logx.Error().Err(err).Msg("catalog shuffle task failed")
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return nil
}
