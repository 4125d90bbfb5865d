package game

import "fmt"

// Oracle is the rules engine behind a Holder. It owns the board and answers
// legality and terminal-condition questions about it.
type Oracle interface {
	FEN() string
	Turn() Color
	IsLegal(m Move) bool
	Apply(m Move) error
	Outcome() Outcome
	Moves() []Move
	Reset()
}

// Holder owns the canonical game state of a room.
type Holder struct {
	oracle Oracle
}

func NewHolder(oracle Oracle) *Holder {
	return &Holder{oracle: oracle}
}

// FEN returns the canonical serialization of the current position.
func (h *Holder) FEN() string {
	return h.oracle.FEN()
}

// Turn returns the color to move.
func (h *Holder) Turn() Color {
	return h.oracle.Turn()
}

// TryApply validates moveSpec for role and applies it. Checks run in a fixed
// order: syntax, turn, legality. The state is untouched unless it returns nil.
func (h *Holder) TryApply(moveSpec string, role Color) (Move, error) {
	m, err := ParseMove(moveSpec)
	if err != nil {
		return Move{}, err
	}

	if role == None || role != h.oracle.Turn() {
		return Move{}, ErrNotYourTurn
	}

	if !h.oracle.IsLegal(m) {
		return Move{}, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	if err := h.oracle.Apply(m); err != nil {
		return Move{}, fmt.Errorf("%w: %s: %v", ErrIllegalMove, m, err)
	}
	return m, nil
}

// TerminalCondition reports how the current game ended, if it has.
func (h *Holder) TerminalCondition() Outcome {
	return h.oracle.Outcome()
}

// Moves returns the moves of the current game in UCI form.
func (h *Holder) Moves() []string {
	moves := h.oracle.Moves()
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

// Reset restores the initial position.
func (h *Holder) Reset() {
	h.oracle.Reset()
}
