package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type ResultRepository interface {
	Save(ctx context.Context, result entity.Result) error
	Stats(ctx context.Context) (entity.Stats, error)
}

type resultRepository struct {
	conn *sql.DB
}

func NewResultRepository(conn *sql.DB) ResultRepository {
	return &resultRepository{
		conn: conn,
	}
}

func (that *resultRepository) Save(ctx context.Context, result entity.Result) error {
	query := `INSERT INTO results (game_id, game_type, difficulty, outcome, moves, finished_at) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		result.GameID, result.Type, result.Difficulty, result.Outcome.String(), result.Moves, result.FinishedAt.Unix())
	if err != nil {
		return fmt.Errorf("can't save result: %w", err)
	}

	return nil
}

func (that *resultRepository) Stats(ctx context.Context) (entity.Stats, error) {
	query := `SELECT outcome, COUNT(*) FROM results GROUP BY outcome`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return entity.Stats{}, fmt.Errorf("can't query stats: %w", err)
	}
	defer rows.Close()

	var stats entity.Stats
	for rows.Next() {
		var (
			name  string
			count int
		)

		if err = rows.Scan(&name, &count); err != nil {
			return entity.Stats{}, fmt.Errorf("can't scan stats: %w", err)
		}

		var outcome entity.Outcome
		if err = outcome.UnmarshalText([]byte(name)); err != nil {
			return entity.Stats{}, fmt.Errorf("can't parse outcome: %w", err)
		}

		switch outcome {
		case entity.WinA:
			stats.XWins = count
		case entity.WinB:
			stats.OWins = count
		case entity.Draw:
			stats.Draws = count
		case entity.InProgress:
		}

		stats.Games += count
	}

	if err = rows.Err(); err != nil {
		return entity.Stats{}, fmt.Errorf("can't read stats: %w", err)
	}

	return stats, nil
}
