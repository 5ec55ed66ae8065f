package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rocketscienceinc/tris-server/internal/apperror"
	"github.com/rocketscienceinc/tris-server/internal/entity"
)

const namespace = "tris"

const (
	ReasonParse    = "parse"
	ReasonRange    = "range"
	ReasonOccupied = "occupied"
	ReasonOther    = "other"
)

type Metrics struct {
	matches       *prometheus.CounterVec
	moves         *prometheus.CounterVec
	invalidMoves  *prometheus.CounterVec
	matchDuration prometheus.Histogram
}

// New - creates the collectors and registers them on the given registerer.
func New(registerer prometheus.Registerer) (*Metrics, error) {
	that := &Metrics{
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Matches played, by outcome.",
		}, []string{"outcome"}),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Accepted placements, by player.",
		}, []string{"player"}),
		invalidMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_moves_total",
			Help:      "Rejected move attempts, by reason.",
		}, []string{"reason"}),
		matchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Wall time from the first turn to the end of a match.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}

	for _, collector := range []prometheus.Collector{that.matches, that.moves, that.invalidMoves, that.matchDuration} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}

	return that, nil
}

func (that *Metrics) MoveAccepted(player entity.Player) {
	that.moves.WithLabelValues(player.String()).Inc()
}

func (that *Metrics) MoveRejected(_ entity.Player, reason error) {
	that.invalidMoves.WithLabelValues(Reason(reason)).Inc()
}

// MatchFinished - aborted matches are counted under their status.
func (that *Metrics) MatchFinished(match *entity.Match, duration time.Duration) {
	label := string(match.Outcome)
	if match.IsAborted() {
		label = entity.StatusAborted
	}

	that.matches.WithLabelValues(label).Inc()
	that.matchDuration.Observe(duration.Seconds())
}

func Reason(err error) string {
	switch {
	case errors.Is(err, apperror.ErrInvalidCoordinate):
		return ReasonParse
	case errors.Is(err, apperror.ErrOutOfRange):
		return ReasonRange
	case errors.Is(err, apperror.ErrCellOccupied):
		return ReasonOccupied
	default:
		return ReasonOther
	}
}
