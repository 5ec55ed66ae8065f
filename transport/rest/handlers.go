package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tris-server/internal/apperror"
	"github.com/rocketscienceinc/tris-server/internal/entity"
)

const recentMatches = 10

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	ListMatches(w http.ResponseWriter, r *http.Request)
	GetMatch(w http.ResponseWriter, r *http.Request)
}

type matchRepo interface {
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	ListRecent(ctx context.Context, limit int64) ([]*entity.Match, error)
}

type handlers struct {
	logger    *slog.Logger
	matchRepo matchRepo
}

func NewHandlers(logger *slog.Logger, matchRepo matchRepo) Handlers {
	return &handlers{
		logger:    logger.With("component", "rest"),
		matchRepo: matchRepo,
	}
}

func (that *handlers) ListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := that.matchRepo.ListRecent(r.Context(), recentMatches)
	if err != nil {
		that.logger.Error("failed to list matches", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, matches)
}

func (that *handlers) GetMatch(w http.ResponseWriter, r *http.Request) {
	match, err := that.matchRepo.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, apperror.ErrNotFound) {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}

	if err != nil {
		that.logger.Error("failed to get match", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, match)
}

func (that *handlers) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
