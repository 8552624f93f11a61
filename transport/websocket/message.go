package websocket

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	actionConnect   = "connect"
	actionGameNew   = "game:new"
	actionGameJoin  = "game:join"
	actionGameTurn  = "game:turn"
	actionGameReset = "game:reset"
	actionGameLeave = "game:leave"
)

const gameStatusLeave = "leave"

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type PlayerRequest struct {
	ID string `json:"id"`
}

type GameRequest struct {
	ID         string      `json:"id,omitempty"`
	Type       string      `json:"type,omitempty"`
	Difficulty string      `json:"difficulty,omitempty"`
	Mark       entity.Cell `json:"mark,omitempty"`
}

type RequestPayload struct {
	Player *PlayerRequest `json:"player,omitempty"`
	Game   *GameRequest   `json:"game,omitempty"`
	Move   *entity.Move   `json:"move,omitempty"`
}

type ResponsePayload struct {
	Player  *entity.Player `json:"player,omitempty"`
	Game    *entity.Game   `json:"game,omitempty"`
	BotMove *entity.Move   `json:"bot_move,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// connection serializes writes; gorilla allows one concurrent writer.
type connection struct {
	conn     *websocket.Conn
	mu       sync.Mutex
	playerID string

	// boundIDs is guarded by Server.connectionsMutex.
	boundIDs map[string]struct{}
}

func (that *connection) send(action string, payload ResponsePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err = that.conn.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// maskGameDetails hides the player list from the client view.
func maskGameDetails(game *entity.Game) *entity.Game {
	if game == nil {
		return nil
	}

	masked := *game
	masked.Players = nil

	return &masked
}
