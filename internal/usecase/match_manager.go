package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tris-server/internal/entity"
	"github.com/rocketscienceinc/tris-server/internal/referee"
)

type matchRepo interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
}

type matchMetrics interface {
	referee.Recorder
	MatchFinished(match *entity.Match, duration time.Duration)
}

type MatchManager struct {
	logger    *slog.Logger
	matchRepo matchRepo
	metrics   matchMetrics

	now   func() time.Time
	newID func() string
}

func NewMatchManager(logger *slog.Logger, matchRepo matchRepo, metrics matchMetrics) *MatchManager {
	return &MatchManager{
		logger:    logger,
		matchRepo: matchRepo,
		metrics:   metrics,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Run - referees one match between the two sessions and archives the result.
// A match lost to a stream failure is archived as aborted and the failure is returned.
func (that *MatchManager) Run(ctx context.Context, playerA, playerB referee.Session, first entity.Player) (*entity.Match, error) {
	match := entity.NewMatch(that.newID(), first, that.now())
	log := that.logger.With("method", "Run", "match_id", match.ID)

	if err := that.saveMatch(ctx, match); err != nil {
		log.Error("failed to archive new match", "error", err)
	}

	ref := referee.New(that.logger, playerA, playerB, referee.WithRecorder(that.metrics))
	result, playErr := ref.Play(first)
	if result == nil {
		return nil, fmt.Errorf("failed to play match: %w", playErr)
	}

	match.Moves = result.Moves
	match.Outcome = result.Outcome
	match.Board = result.Board
	match.FinishedAt = that.now()
	match.Status = entity.StatusFinished
	if playErr != nil {
		match.Status = entity.StatusAborted
	}

	that.metrics.MatchFinished(match, match.FinishedAt.Sub(match.StartedAt))

	saveErr := that.saveMatch(ctx, match)
	if saveErr != nil {
		log.Error("failed to archive match", "error", saveErr)
	}

	log.Info("match over", "status", match.Status, "outcome", match.Outcome, "moves", len(match.Moves))

	if err := errors.Join(playErr, saveErr); err != nil {
		return match, fmt.Errorf("match %s: %w", match.ID, err)
	}

	return match, nil
}

func (that *MatchManager) saveMatch(ctx context.Context, match *entity.Match) error {
	if err := that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}

	return nil
}
