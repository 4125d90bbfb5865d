package game

import (
	"fmt"
	"strings"
)

// Color is the role a connection plays. White is the first player, Black the second.
type Color string

const (
	None  Color = ""
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other playing color.
func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return None
}

// Code returns the single-letter side-to-move code used on the wire ("w" or "b").
func (c Color) Code() string {
	switch c {
	case White:
		return "w"
	case Black:
		return "b"
	}
	return ""
}

// Title returns the capitalized color name, e.g. "White".
func (c Color) Title() string {
	if c == None {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Move is a move in coordinate notation: source square, destination square
// and an optional promotion piece.
type Move struct {
	From      string
	To        string
	Promotion string
}

// String returns the move in UCI form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	return m.From + m.To + m.Promotion
}

// ParseMove parses a 4-5 character coordinate string. It checks shape only;
// legality is decided by the Oracle.
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q has %d characters", ErrMalformedMove, s, len(s))
	}
	from, to := s[0:2], s[2:4]
	if !isSquare(from) || !isSquare(to) {
		return Move{}, fmt.Errorf("%w: %q is not a square pair", ErrMalformedMove, s)
	}
	if from == to {
		return Move{}, fmt.Errorf("%w: %q does not move", ErrMalformedMove, s)
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		if !strings.ContainsRune("qrbn", rune(s[4])) {
			return Move{}, fmt.Errorf("%w: unknown promotion piece %q", ErrMalformedMove, s[4:])
		}
		m.Promotion = s[4:]
	}
	return m, nil
}

func isSquare(s string) bool {
	return len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8'
}

// Result is the kind of game ending.
type Result string

const (
	NoResult  Result = ""
	Checkmate Result = "checkmate"
	Stalemate Result = "stalemate"
	Draw      Result = "draw"
	Forfeit   Result = "forfeit"
)

// Draw reasons detected automatically after a move.
const (
	DrawInsufficientMaterial = "insufficient_material"
	DrawSeventyFiveMoveRule  = "seventy_five_move_rule"
	DrawFivefoldRepetition   = "fivefold_repetition"
)

// Outcome describes whether and how a game ended.
type Outcome struct {
	Result     Result
	Winner     Color
	DrawReason string
}

// Terminal reports whether the outcome ends the game.
func (o Outcome) Terminal() bool {
	return o.Result != NoResult
}
