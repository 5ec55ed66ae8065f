package entity

import "time"

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
	StatusAborted  = "aborted"
)

// Outcome is the classification of a game.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeWinA       Outcome = "win_a"
	OutcomeWinB       Outcome = "win_b"
	OutcomeDraw       Outcome = "draw"
)

func WinFor(player Player) Outcome {
	if player == PlayerA {
		return OutcomeWinA
	}
	return OutcomeWinB
}

func (that Outcome) IsTerminal() bool {
	return that == OutcomeWinA || that == OutcomeWinB || that == OutcomeDraw
}

type Move struct {
	Player Player `json:"player"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

// Match is the archived record of one refereed game.
type Match struct {
	ID          string    `json:"id"`
	FirstPlayer Player    `json:"first_player"`
	Moves       []Move    `json:"moves"`
	Outcome     Outcome   `json:"outcome"`
	Status      string    `json:"status"`
	Board       string    `json:"board"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at,omitempty"`
}

func NewMatch(id string, first Player, startedAt time.Time) *Match {
	return &Match{
		ID:          id,
		FirstPlayer: first,
		Moves:       []Move{},
		Outcome:     OutcomeInProgress,
		Status:      StatusOngoing,
		StartedAt:   startedAt,
	}
}

func (that *Match) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Match) IsAborted() bool {
	return that.Status == StatusAborted
}
