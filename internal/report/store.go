package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/park285/chess-coach-go/internal/analysis"
)

const keyPrefix = "coach:report:"

// Store caches the latest completed report per game in Redis. The cache is
// swapped wholesale on every successful run; stale partial state never
// survives a re-analysis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(redisURL string, ttl time.Duration) (*Store, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for report store")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl}, nil
}

// NewStoreWithClient wraps an existing client. Used by tests.
func NewStoreWithClient(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func (s *Store) Save(ctx context.Context, gameID string, rep *analysis.Report) error {
	raw, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+gameID, raw, s.ttl).Err()
}

// Load returns the cached report, or nil when none exists.
func (s *Store) Load(ctx context.Context, gameID string) (*analysis.Report, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+gameID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rep analysis.Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (s *Store) Delete(ctx context.Context, gameID string) error {
	return s.rdb.Del(ctx, keyPrefix+gameID).Err()
}
