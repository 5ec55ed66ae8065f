// Package referee drives one game between two player sessions: turn order, move
// solicitation with re-prompt on invalid input, and win/draw detection.
package referee

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tris-server/internal/apperror"
	"github.com/rocketscienceinc/tris-server/internal/entity"
	"github.com/rocketscienceinc/tris-server/internal/protocol"
)

const maxMoves = entity.Size * entity.Size

// Session is the referee's view of one player connection.
type Session interface {
	Send(msg protocol.Message) error
	ReceiveLine() (string, error)
	Close() error
}

// Recorder observes every move attempt.
type Recorder interface {
	MoveAccepted(player entity.Player)
	MoveRejected(player entity.Player, reason error)
}

type nopRecorder struct{}

func (nopRecorder) MoveAccepted(entity.Player)        {}
func (nopRecorder) MoveRejected(entity.Player, error) {}

// Result is what is known about the game when Play returns.
type Result struct {
	Outcome entity.Outcome
	Moves   []entity.Move
	Board   string
}

type Referee struct {
	logger   *slog.Logger
	recorder Recorder

	board    *entity.Board
	sessions [2]Session
	moves    []entity.Move
}

type Option func(*Referee)

func WithRecorder(recorder Recorder) Option {
	return func(that *Referee) {
		if recorder != nil {
			that.recorder = recorder
		}
	}
}

// New - the referee owns the board and both sessions until Play returns.
func New(logger *slog.Logger, playerA, playerB Session, opts ...Option) *Referee {
	ref := &Referee{
		logger:   logger.With("component", "referee"),
		recorder: nopRecorder{},
		board:    entity.NewBoard(),
		sessions: [2]Session{playerA, playerB},
		moves:    make([]entity.Move, 0, maxMoves),
	}

	for _, opt := range opts {
		opt(ref)
	}

	return ref
}

// Play - runs the game to a win, a draw or a stream failure. Both sessions are closed on return.
func (that *Referee) Play(first entity.Player) (*Result, error) {
	log := that.logger.With("method", "Play", "first_player", first.String())

	if !first.Valid() {
		return nil, fmt.Errorf("%w: %d", entity.ErrUnknownPlayer, first)
	}

	defer that.closeSessions()

	log.Info("game started")

	player := first
	for {
		if err := that.announceTurn(player); err != nil {
			log.Error("failed to announce turn", "error", err)
			return that.result(entity.OutcomeInProgress), fmt.Errorf("%w: %w", apperror.ErrMatchAborted, err)
		}

		won, err := that.playTurn(player)
		if err != nil {
			log.Error("turn aborted", "player", player.String(), "error", err)
			return that.result(entity.OutcomeInProgress), fmt.Errorf("%w: %w", apperror.ErrMatchAborted, err)
		}

		if won {
			that.reportWin(player)
			log.Info("game won", "player", player.String(), "moves", len(that.moves))
			return that.result(entity.WinFor(player)), nil
		}

		// a draw is only decided after a completed, non-winning placement
		if len(that.moves) == maxMoves {
			that.reportDraw()
			log.Info("game drawn")
			return that.result(entity.OutcomeDraw), nil
		}

		player = player.Opponent()
	}
}

func (that *Referee) announceTurn(player entity.Player) error {
	msg := protocol.TurnAnnouncement{Player: player}

	for _, sess := range that.sessions {
		if err := sess.Send(msg); err != nil {
			return err
		}
	}

	return nil
}

// playTurn - solicits moves from the active player until one is placed, then reports a win.
func (that *Referee) playTurn(player entity.Player) (bool, error) {
	log := that.logger.With("method", "playTurn", "player", player.String())
	sess := that.sessions[player.Index()]

	if err := sess.Send(protocol.SnapshotOf(that.board)); err != nil {
		return false, err
	}

	var row, col int
	for {
		var err error

		row, col, err = that.solicitMove(sess)
		if err == nil {
			err = that.board.Place(row, col, player)
		}

		if err == nil {
			break
		}

		if !errors.Is(err, apperror.ErrInvalidMove) {
			return false, err
		}

		log.Info("move rejected", "error", err)
		that.recorder.MoveRejected(player, err)

		if err = sess.Send(protocol.ValidityResult{Valid: false}); err != nil {
			return false, err
		}
	}

	that.moves = append(that.moves, entity.Move{Player: player, Row: row, Col: col})
	that.recorder.MoveAccepted(player)

	if err := sess.Send(protocol.ValidityResult{Valid: true}); err != nil {
		return false, err
	}

	if err := sess.Send(protocol.SnapshotOf(that.board)); err != nil {
		return false, err
	}

	return that.board.HasWon(player), nil
}

// solicitMove - asks for the row then the column. Both are always read so the client stays in step.
func (that *Referee) solicitMove(sess Session) (int, int, error) {
	rowToken, err := that.ask(sess, protocol.AxisRow)
	if err != nil {
		return 0, 0, err
	}

	colToken, err := that.ask(sess, protocol.AxisColumn)
	if err != nil {
		return 0, 0, err
	}

	row, err := protocol.ParseCoordinate(rowToken)
	if err != nil {
		return 0, 0, err
	}

	col, err := protocol.ParseCoordinate(colToken)
	if err != nil {
		return 0, 0, err
	}

	return row, col, nil
}

func (that *Referee) ask(sess Session, axis protocol.Axis) (string, error) {
	if err := sess.Send(protocol.CoordinatePrompt{Axis: axis}); err != nil {
		return "", err
	}

	return sess.ReceiveLine()
}

func (that *Referee) reportWin(winner entity.Player) {
	err := errors.Join(
		that.sessions[winner.Index()].Send(protocol.Terminal{Result: protocol.ResultWin}),
		that.sessions[winner.Opponent().Index()].Send(protocol.Terminal{Result: protocol.ResultLoss}),
	)
	if err != nil {
		that.logger.Error("failed to report win", "error", err)
	}
}

func (that *Referee) reportDraw() {
	msg := protocol.Terminal{Result: protocol.ResultDraw}

	if err := errors.Join(that.sessions[0].Send(msg), that.sessions[1].Send(msg)); err != nil {
		that.logger.Error("failed to report draw", "error", err)
	}
}

func (that *Referee) closeSessions() {
	for i, sess := range that.sessions {
		if err := sess.Close(); err != nil {
			that.logger.Error("failed to close session", "player", i, "error", err)
		}
	}
}

func (that *Referee) result(outcome entity.Outcome) *Result {
	moves := make([]entity.Move, len(that.moves))
	copy(moves, that.moves)

	return &Result{
		Outcome: outcome,
		Moves:   moves,
		Board:   that.board.Serialize(),
	}
}
