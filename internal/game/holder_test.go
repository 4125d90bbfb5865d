package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const initialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func newChessHolder(t *testing.T) *Holder {
	t.Helper()
	return NewHolder(NewChessOracle())
}

func newChessHolderFromFEN(t *testing.T, fen string) *Holder {
	t.Helper()
	oracle, err := NewChessOracleFromFEN(fen)
	require.NoError(t, err)
	return NewHolder(oracle)
}

func TestHolder_InitialState(t *testing.T) {
	h := newChessHolder(t)

	assert.Equal(t, initialFEN, h.FEN())
	assert.Equal(t, White, h.Turn())
	assert.False(t, h.TerminalCondition().Terminal())
	assert.Empty(t, h.Moves())
}

func TestHolder_TryApply(t *testing.T) {
	t.Run("Legal opening move is applied and the turn passes", func(t *testing.T) {
		h := newChessHolder(t)

		m, err := h.TryApply("e2e4", White)

		require.NoError(t, err)
		assert.Equal(t, Move{From: "e2", To: "e4"}, m)
		assert.Equal(t, Black, h.Turn())
		assert.True(t, strings.HasPrefix(h.FEN(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq"))
		assert.Equal(t, []string{"e2e4"}, h.Moves())
	})

	t.Run("Rejections never mutate the state", func(t *testing.T) {
		tests := []struct {
			name    string
			move    string
			role    Color
			wantErr error
		}{
			{name: "Malformed", move: "e2", role: White, wantErr: ErrMalformedMove},
			{name: "Wrong side", move: "e7e5", role: Black, wantErr: ErrNotYourTurn},
			{name: "Spectator", move: "e2e4", role: None, wantErr: ErrNotYourTurn},
			{name: "Illegal pawn jump", move: "e2e5", role: White, wantErr: ErrIllegalMove},
			{name: "Moving the opponent's piece", move: "e7e5", role: White, wantErr: ErrIllegalMove},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := newChessHolder(t)
				before := h.FEN()

				_, err := h.TryApply(tt.move, tt.role)

				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, h.FEN())
				assert.Equal(t, White, h.Turn())
			})
		}
	})

	t.Run("Malformed syntax is reported before turn order", func(t *testing.T) {
		h := newChessHolder(t)

		_, err := h.TryApply("zz", Black)

		require.ErrorIs(t, err, ErrMalformedMove)
	})

	t.Run("Turn order is reported before legality", func(t *testing.T) {
		h := newChessHolder(t)

		_, err := h.TryApply("a1a8", Black)

		require.ErrorIs(t, err, ErrNotYourTurn)
	})
}

func TestHolder_TurnAlternates(t *testing.T) {
	h := newChessHolder(t)
	moves := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6"}

	side := White
	for _, mv := range moves {
		_, err := h.TryApply(mv, side)
		require.NoError(t, err, mv)
		assert.Equal(t, side.Opponent(), h.Turn())

		_, err = h.TryApply(mv, side)
		require.ErrorIs(t, err, ErrNotYourTurn, "same side cannot move twice")
		side = side.Opponent()
	}
}

func TestHolder_TerminalCondition(t *testing.T) {
	t.Run("Fool's mate is checkmate for Black", func(t *testing.T) {
		h := newChessHolder(t)
		for i, mv := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
			side := White
			if i%2 == 1 {
				side = Black
			}
			_, err := h.TryApply(mv, side)
			require.NoError(t, err, mv)
		}

		assert.Equal(t, Outcome{Result: Checkmate, Winner: Black}, h.TerminalCondition())
	})

	t.Run("Stalemate", func(t *testing.T) {
		h := newChessHolderFromFEN(t, "k7/8/1K6/8/8/8/8/2Q5 w - - 0 1")

		_, err := h.TryApply("c1c7", White)
		require.NoError(t, err)

		assert.Equal(t, Outcome{Result: Stalemate}, h.TerminalCondition())
	})

	t.Run("Insufficient material is a draw", func(t *testing.T) {
		h := newChessHolderFromFEN(t, "k7/8/8/8/8/8/1n6/K7 w - - 0 1")

		_, err := h.TryApply("a1b2", White)
		require.NoError(t, err)

		assert.Equal(t, Outcome{Result: Draw, DrawReason: DrawInsufficientMaterial}, h.TerminalCondition())
	})
}

func TestHolder_Reset(t *testing.T) {
	h := newChessHolder(t)
	_, err := h.TryApply("d2d4", White)
	require.NoError(t, err)

	h.Reset()

	assert.Equal(t, initialFEN, h.FEN())
	assert.Equal(t, White, h.Turn())
	assert.Empty(t, h.Moves())
}

func TestNewChessOracleFromFEN_Invalid(t *testing.T) {
	_, err := NewChessOracleFromFEN("not a fen")
	require.Error(t, err)
}

type scriptedOracle struct {
	turn    Color
	legal   map[string]bool
	applied []Move
	outcome Outcome
	resets  int
}

func (o *scriptedOracle) FEN() string { return "scripted" }
func (o *scriptedOracle) Turn() Color { return o.turn }
func (o *scriptedOracle) IsLegal(m Move) bool { return o.legal[m.String()] }
func (o *scriptedOracle) Outcome() Outcome { return o.outcome }
func (o *scriptedOracle) Moves() []Move { return o.applied }
func (o *scriptedOracle) Reset() {
	o.resets++
	o.applied = nil
	o.turn = White
}

func (o *scriptedOracle) Apply(m Move) error {
	o.applied = append(o.applied, m)
	o.turn = o.turn.Opponent()
	return nil
}

func TestHolder_ScriptedOracle(t *testing.T) {
	oracle := &scriptedOracle{turn: White, legal: map[string]bool{"a2a3": true}}
	h := NewHolder(oracle)

	_, err := h.TryApply("e2e4", White)
	require.ErrorIs(t, err, ErrIllegalMove)
	assert.Empty(t, oracle.applied, "illegal moves never reach Apply")

	_, err = h.TryApply("a2a3", White)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2a3"}, h.Moves())
	assert.Equal(t, Black, h.Turn())

	oracle.outcome = Outcome{Result: Checkmate, Winner: White}
	assert.Equal(t, oracle.outcome, h.TerminalCondition())

	h.Reset()
	assert.Equal(t, 1, oracle.resets)
	assert.Empty(t, h.Moves())
}
