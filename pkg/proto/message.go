package proto

import "ctchen222/chess-room/internal/game"

// Inbound message types.
const (
	TypeMove           = "move"
	TypeRequestNewGame = "request_new_game"
	TypeForfeit        = "forfeit"
)

// Outbound message types.
const (
	TypePlayerAssigned     = "player_assigned"
	TypeStatus             = "status"
	TypeGameStart          = "game_start"
	TypeBoardUpdate        = "board_update"
	TypeGameOver           = "game_over"
	TypeEnableNewGame      = "enable_new_game"
	TypeWaitingForOpponent = "waiting_for_opponent"
	TypeNewGameReady       = "new_game_ready"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type string `json:"type" validate:"required,oneof=move request_new_game forfeit"`
	Move string `json:"move,omitempty"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type       string      `json:"type" validate:"required"`
	Message    string      `json:"message,omitempty"`
	Color      game.Color  `json:"color,omitempty"`
	FEN        string      `json:"fen,omitempty"`
	Turn       string      `json:"turn,omitempty"`
	Result     game.Result `json:"result,omitempty"`
	Winner     game.Color  `json:"winner,omitempty"`
	DrawReason string      `json:"drawReason,omitempty"`
}

// Status builds an advisory text message.
func Status(text string) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeStatus, Message: text}
}

// Position builds a message of the given type carrying a board position.
func Position(msgType, fen string, turn game.Color) *ServerToClientMessage {
	return &ServerToClientMessage{Type: msgType, FEN: fen, Turn: turn.Code()}
}

// GameOver builds the game_over message for outcome.
func GameOver(outcome game.Outcome) *ServerToClientMessage {
	return &ServerToClientMessage{
		Type:       TypeGameOver,
		Result:     outcome.Result,
		Winner:     outcome.Winner,
		DrawReason: outcome.DrawReason,
	}
}
