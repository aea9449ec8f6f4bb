package notepad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sudo-init-do/bazaar/internal/errx"
	"github.com/sudo-init-do/bazaar/internal/logx"
)

const maxTxRetries = 5

// RedisRepository stores each page as a JSON encoded list under
// notepad:<page>.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository keeps pages for ttl after their last change; zero keeps
// them forever.
func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func (r *RedisRepository) List(ctx context.Context, page string) ([]Entry, error) {
	return decode(r.client.Get(ctx, key(page)))
}

func (r *RedisRepository) Update(ctx context.Context, page string, fn func([]Entry) ([]Entry, error)) error {
	k := key(page)
	txf := func(tx *redis.Tx) error {
		entries, err := decode(tx.Get(ctx, k))
		if err != nil {
			return err
		}
		next, err := fn(entries)
		if err != nil {
			return err
		}
		var raw []byte
		if len(next) > 0 {
			if raw, err = json.Marshal(next); err != nil {
				return fmt.Errorf("encode notes: %w", err)
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if raw == nil {
				pipe.Del(ctx, k)
				return nil
			}
			pipe.Set(ctx, k, raw, r.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		var appErr *errx.AppError
		if err == nil || errors.As(err, &appErr) {
			return err
		}
		return errx.WrapRedis(err)
	}
	return errx.WrapRedis(redis.TxFailedErr)
}

func decode(cmd *redis.StringCmd) ([]Entry, error) {
	raw, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, errx.WrapRedis(err)
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		// A list that no longer decodes starts over empty.
		logx.Warn().Err(err).Interface("key", cmd.Args()[1]).Msg("discarding malformed notes")
		return []Entry{}, nil
	}
	return entries, nil
}
