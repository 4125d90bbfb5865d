package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMove(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Move
		wantErr bool
	}{
		{name: "Pawn push", input: "e2e4", want: Move{From: "e2", To: "e4"}},
		{name: "Promotion", input: "e7e8q", want: Move{From: "e7", To: "e8", Promotion: "q"}},
		{name: "Upper case is accepted", input: "G1F3", want: Move{From: "g1", To: "f3"}},
		{name: "Surrounding spaces are trimmed", input: " b1c3 ", want: Move{From: "b1", To: "c3"}},
		{name: "Too short", input: "e2e", wantErr: true},
		{name: "Too long", input: "e2e4qq", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
		{name: "File out of range", input: "i2i4", wantErr: true},
		{name: "Rank out of range", input: "e0e9", wantErr: true},
		{name: "Unknown promotion piece", input: "e7e8k", wantErr: true},
		{name: "Same square", input: "e2e2", wantErr: true},
		{name: "Algebraic notation", input: "Nf3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMove(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedMove)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMove_String(t *testing.T) {
	assert.Equal(t, "e2e4", Move{From: "e2", To: "e4"}.String())
	assert.Equal(t, "a7a8n", Move{From: "a7", To: "a8", Promotion: "n"}.String())
}

func TestColor(t *testing.T) {
	tests := []struct {
		color    Color
		opponent Color
		code     string
		title    string
	}{
		{color: White, opponent: Black, code: "w", title: "White"},
		{color: Black, opponent: White, code: "b", title: "Black"},
		{color: None, opponent: None, code: "", title: ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.color), func(t *testing.T) {
			assert.Equal(t, tt.opponent, tt.color.Opponent())
			assert.Equal(t, tt.code, tt.color.Code())
			assert.Equal(t, tt.title, tt.color.Title())
		})
	}
}

func TestOutcome_Terminal(t *testing.T) {
	assert.False(t, Outcome{}.Terminal())
	assert.True(t, Outcome{Result: Stalemate}.Terminal())
	assert.True(t, Outcome{Result: Checkmate, Winner: White}.Terminal())
}
