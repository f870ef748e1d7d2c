package dataviewer

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Sink receives every snapshot a monitor produces. Sinks run on the
// refresh tick, a sink failure fails the run.
type Sink interface {
	Name() string
	Publish(ctx context.Context, snap *Snapshot) error
	Close() error
}

// RedisSink mirrors the latest per-channel statistics into redis
// hashes and publishes each snapshot on a pub/sub channel, so other
// tools can follow a live session.
type RedisSink struct {
	client  *redis.Client
	prefix  string
	session string
}

func NewRedisSink(cfg RedisConfig, session string) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return &RedisSink{client: client, prefix: cfg.Prefix, session: session}, nil
}

func (s *RedisSink) Name() string {
	return "redis"
}

// key returns the hash key for one channel of this session.
func (s *RedisSink) key(channel string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, s.session, channel)
}

// pubsubChannel is where whole snapshots are published.
func (s *RedisSink) pubsubChannel() string {
	return fmt.Sprintf("%s:%s:snapshots", s.prefix, s.session)
}

func (s *RedisSink) Publish(ctx context.Context, snap *Snapshot) error {
	pipe := s.client.Pipeline()
	for _, st := range snap.Channels {
		if st.N == 0 {
			continue
		}
		pipe.HSet(ctx, s.key(st.Channel), map[string]interface{}{
			"last": st.Last,
			"min":  st.Min,
			"max":  st.Max,
			"mean": st.Mean,
			"rms":  st.RMS,
			"n":    st.N,
			"time": snap.Time.UnixMilli(),
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write channel stats: %w", err)
	}

	if err := s.client.Publish(ctx, s.pubsubChannel(), snap.Time.UnixMilli()).Err(); err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}
	return nil
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
