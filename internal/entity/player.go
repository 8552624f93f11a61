package entity

type Player struct {
	ID     string `json:"id"`
	Mark   Cell   `json:"mark,omitempty"`
	GameID string `json:"game_id,omitempty"`
	Bot    bool   `json:"bot,omitempty"`
}

func NewBotPlayer(gameID string, mark Cell) *Player {
	return &Player{
		ID:     "bot:" + gameID,
		Mark:   mark,
		GameID: gameID,
		Bot:    true,
	}
}

func (that *Player) IsBot() bool {
	return that.Bot
}

// Detach clears the game binding of a player that left or finished a game.
func (that *Player) Detach() {
	that.GameID = ""
	that.Mark = CellEmpty
}
