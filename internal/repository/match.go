package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tris-server/internal/apperror"
	"github.com/rocketscienceinc/tris-server/internal/entity"
)

const (
	matchKeyPrefix = "match:"
	recentKey      = "matches"
	recentLimit    = 100
)

var ErrMatchNotFound = fmt.Errorf("match %w", apperror.ErrNotFound)

type MatchRepository interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	ListRecent(ctx context.Context, limit int64) ([]*entity.Match, error)
}

type dbMatch struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMatchRepository - a zero ttl keeps matches forever.
func NewMatchRepository(client *redis.Client, ttl time.Duration) MatchRepository {
	return &dbMatch{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbMatch) CreateOrUpdate(ctx context.Context, match *entity.Match) error {
	matchJSON, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("could not marshal match: %w", err)
	}

	exists, err := that.client.Exists(ctx, matchKeyPrefix+match.ID).Result()
	if err != nil {
		return fmt.Errorf("failed to check match: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, matchKeyPrefix+match.ID, matchJSON, that.ttl)

		if exists == 0 {
			pipe.LPush(ctx, recentKey, match.ID)
			pipe.LTrim(ctx, recentKey, 0, recentLimit-1)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set match: %w", err)
	}

	return nil
}

func (that *dbMatch) GetByID(ctx context.Context, id string) (*entity.Match, error) {
	response, err := that.client.Get(ctx, matchKeyPrefix+id).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrMatchNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get match by id: %w", err)
	}

	var match entity.Match
	if err = json.Unmarshal([]byte(response), &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return &match, nil
}

// ListRecent - newest first. Expired matches are skipped.
func (that *dbMatch) ListRecent(ctx context.Context, limit int64) ([]*entity.Match, error) {
	if limit <= 0 {
		return []*entity.Match{}, nil
	}

	ids, err := that.client.LRange(ctx, recentKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	matches := make([]*entity.Match, 0, len(ids))
	for _, id := range ids {
		match, err := that.GetByID(ctx, id)
		if errors.Is(err, ErrMatchNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		matches = append(matches, match)
	}

	return matches, nil
}
