package game

import (
	"fmt"

	"github.com/notnil/chess"
)

// ChessOracle is an Oracle backed by github.com/notnil/chess.
type ChessOracle struct {
	start []func(*chess.Game)
	game  *chess.Game
}

// NewChessOracle returns an oracle set to the standard starting position.
func NewChessOracle() *ChessOracle {
	return &ChessOracle{game: chess.NewGame()}
}

// NewChessOracleFromFEN returns an oracle whose starting position, including
// after Reset, is fen.
func NewChessOracleFromFEN(fen string) (*ChessOracle, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fen: %w", err)
	}
	start := []func(*chess.Game){opt}
	return &ChessOracle{start: start, game: chess.NewGame(start...)}, nil
}

func (o *ChessOracle) FEN() string {
	return o.game.Position().String()
}

func (o *ChessOracle) Turn() Color {
	if o.game.Position().Turn() == chess.White {
		return White
	}
	return Black
}

func (o *ChessOracle) IsLegal(m Move) bool {
	return o.find(m) != nil
}

func (o *ChessOracle) Apply(m Move) error {
	valid := o.find(m)
	if valid == nil {
		return ErrIllegalMove
	}
	return o.game.Move(valid)
}

func (o *ChessOracle) Outcome() Outcome {
	if o.game.Outcome() == chess.NoOutcome {
		return Outcome{}
	}

	switch o.game.Method() {
	case chess.Checkmate:
		winner := White
		if o.game.Outcome() == chess.BlackWon {
			winner = Black
		}
		return Outcome{Result: Checkmate, Winner: winner}
	case chess.Stalemate:
		return Outcome{Result: Stalemate}
	case chess.InsufficientMaterial:
		return Outcome{Result: Draw, DrawReason: DrawInsufficientMaterial}
	case chess.SeventyFiveMoveRule:
		return Outcome{Result: Draw, DrawReason: DrawSeventyFiveMoveRule}
	case chess.FivefoldRepetition:
		return Outcome{Result: Draw, DrawReason: DrawFivefoldRepetition}
	}
	return Outcome{}
}

func (o *ChessOracle) Moves() []Move {
	played := o.game.Moves()
	moves := make([]Move, len(played))
	for i, m := range played {
		moves[i] = Move{From: m.S1().String(), To: m.S2().String(), Promotion: m.Promo().String()}
	}
	return moves
}

func (o *ChessOracle) Reset() {
	o.game = chess.NewGame(o.start...)
}

func (o *ChessOracle) find(m Move) *chess.Move {
	want := m.String()
	for _, valid := range o.game.ValidMoves() {
		if valid.String() == want {
			return valid
		}
	}
	return nil
}
