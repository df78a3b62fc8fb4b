// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/ballot-station/ballot"
)

var _ ballot.Store = (*RedisStore)(nil)

const defaultRedisPrefix = "ballot"

// RedisStore keeps voter records in a Redis set and candidate counts in a
// hash, both under a common key prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore parses a redis:// URL and verifies the server is reachable.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: c, prefix: defaultRedisPrefix}, nil
}

func (s *RedisStore) votersKey() string  { return s.prefix + ":voters" }
func (s *RedisStore) tallyKey() string   { return s.prefix + ":tally" }
func (s *RedisStore) receiptKey() string { return s.prefix + ":receipts" }

// EnsureSchema is a no-op: Redis keys are created on first write.
func (s *RedisStore) EnsureSchema(ctx context.Context) error {
	return nil
}

func (s *RedisStore) HasVoted(ctx context.Context, referenceID string) (bool, error) {
	voted, err := s.client.SIsMember(ctx, s.votersKey(), referenceID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to query voter set: %w", err)
	}
	return voted, nil
}

// RecordVote watches the voter set so a concurrent insert of the same
// reference ID aborts the transaction.
func (s *RedisStore) RecordVote(ctx context.Context, rec ballot.VoterRecord, candidate string, beforeCommit func() error) error {
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		voted, err := tx.SIsMember(ctx, s.votersKey(), rec.ReferenceID).Result()
		if err != nil {
			return fmt.Errorf("failed to query voter set: %w", err)
		}
		if voted {
			return ballot.ErrAlreadyVoted
		}

		if beforeCommit != nil {
			if err := beforeCommit(); err != nil {
				return err
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SAdd(ctx, s.votersKey(), rec.ReferenceID)
			pipe.HSet(ctx, s.receiptKey(), rec.ReferenceID, rec.ReceiptID)
			pipe.HIncrBy(ctx, s.tallyKey(), candidate, 1)
			return nil
		})
		return err
	}, s.votersKey())

	// A redis.TxFailedErr means another writer touched the voter set; the
	// caller sees it as a storage failure and nothing was counted.
	if err != nil {
		return fmt.Errorf("failed to record vote: %w", err)
	}
	return nil
}

func (s *RedisStore) CandidateCounts(ctx context.Context) (map[string]int, error) {
	raw, err := s.client.HGetAll(ctx, s.tallyKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate tally: %w", err)
	}

	counts := make(map[string]int, len(raw))
	for candidate, countStr := range raw {
		count, err := strconv.Atoi(countStr)
		if err != nil {
			return nil, fmt.Errorf("invalid count for %q: %w", candidate, err)
		}
		counts[candidate] = count
	}
	return counts, nil
}

func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	return nil
}
