package entity

import "time"

// Result is the record of a finished game.
type Result struct {
	GameID     string    `json:"game_id"`
	Type       string    `json:"type"`
	Difficulty string    `json:"difficulty,omitempty"`
	Outcome    Outcome   `json:"outcome"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}

func NewResult(game *Game, finishedAt time.Time) Result {
	return Result{
		GameID:     game.ID,
		Type:       game.Type,
		Difficulty: game.Difficulty,
		Outcome:    game.Outcome,
		Moves:      game.Board.Filled(),
		FinishedAt: finishedAt,
	}
}

type Stats struct {
	Games int `json:"games"`
	XWins int `json:"x_wins"`
	OWins int `json:"o_wins"`
	Draws int `json:"draws"`
}
