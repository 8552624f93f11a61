package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
)

type engine interface {
	BestMove(board entity.Board, turn entity.Cell) (int, *entity.Move, error)
	Stats(ctx context.Context) (entity.Stats, error)
}

type BestMoveRequest struct {
	Board entity.Board `json:"board"`
	Turn  entity.Cell  `json:"turn"`
}

type BestMoveResponse struct {
	Score   int            `json:"score"`
	Move    *entity.Move   `json:"move,omitempty"`
	Outcome entity.Outcome `json:"outcome"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handlers struct {
	logger *slog.Logger
	engine engine
}

func NewHandlers(logger *slog.Logger, engine engine) *Handlers {
	return &Handlers{
		logger: logger,
		engine: engine,
	}
}

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

// BestMove solves the posted position for the side to move.
func (that *Handlers) BestMove(w http.ResponseWriter, r *http.Request) {
	var req BestMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	score, move, err := that.engine.BestMove(req.Board, req.Turn)
	if err != nil {
		that.writeError(w, statusOf(err), err)
		return
	}

	that.writeJSON(w, http.StatusOK, BestMoveResponse{
		Score:   score,
		Move:    move,
		Outcome: req.Board.Outcome(),
	})
}

func (that *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := that.engine.Stats(r.Context())
	if err != nil {
		that.logger.Error("failed to get stats", "error", err)
		that.writeError(w, http.StatusInternalServerError, err)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrOutOfRange),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrInvalidMark),
		errors.Is(err, apperror.ErrUnreachable):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrGameNotFound),
		errors.Is(err, repository.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (that *Handlers) writeError(w http.ResponseWriter, status int, err error) {
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
	}

	that.writeJSON(w, status, ErrorResponse{Error: message})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
