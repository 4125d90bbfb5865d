package validator

import (
	"testing"

	"ctchen222/chess-room/pkg/proto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		msg     proto.ClientToServerMessage
		wantErr string
	}{
		{name: "Move", msg: proto.ClientToServerMessage{Type: proto.TypeMove, Move: "e2e4"}},
		{name: "Move without a body is left to the move parser", msg: proto.ClientToServerMessage{Type: proto.TypeMove}},
		{name: "Rematch", msg: proto.ClientToServerMessage{Type: proto.TypeRequestNewGame}},
		{name: "Forfeit", msg: proto.ClientToServerMessage{Type: proto.TypeForfeit}},
		{name: "Missing type", msg: proto.ClientToServerMessage{}, wantErr: "Type failed required"},
		{name: "Unknown type", msg: proto.ClientToServerMessage{Type: "chat"}, wantErr: "Type failed oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.msg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
