package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ctchen222/chess-room/internal/player"
	"ctchen222/chess-room/internal/player/playertest"
	"ctchen222/chess-room/pkg/proto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	roomID    string
	eventType string
	payload   string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, roomID, eventType string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{roomID: roomID, eventType: eventType, payload: string(payload)})
	return p.err
}

func newMember(id string) (*player.Player, *playertest.Conn) {
	conn := playertest.NewConn()
	return player.NewPlayer(id, conn), conn
}

func TestGateway_ToRoom(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	g := New("chess_room", pub)

	a, connA := newMember("a")
	b, connB := newMember("b")
	g.Join(a)
	g.Join(b)
	g.Join(a)
	require.Equal(t, 2, g.Size())

	g.ToRoom(ctx, proto.Status("hello"))
	g.ToRoom(ctx, &proto.ServerToClientMessage{Type: proto.TypeEnableNewGame})

	for _, conn := range []*playertest.Conn{connA, connB} {
		assert.Equal(t, []string{proto.TypeStatus, proto.TypeEnableNewGame}, conn.Types())
		assert.Equal(t, "hello", conn.Messages()[0].Message)
	}

	require.Len(t, pub.events, 2)
	assert.Equal(t, "chess_room", pub.events[0].roomID)
	assert.Equal(t, proto.TypeStatus, pub.events[0].eventType)
	assert.JSONEq(t, `{"type":"status","message":"hello"}`, pub.events[0].payload)
}

func TestGateway_ToConnection(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	g := New("chess_room", pub)

	a, connA := newMember("a")
	b, connB := newMember("b")
	g.Join(a)
	g.Join(b)

	g.ToConnection(ctx, b, proto.Status("only you"))

	assert.Empty(t, connA.Messages())
	assert.Equal(t, "only you", connB.Last().Message)
	assert.Empty(t, pub.events, "direct messages are not mirrored")
}

func TestGateway_Leave(t *testing.T) {
	ctx := context.Background()
	g := New("chess_room", nil)

	a, connA := newMember("a")
	b, connB := newMember("b")
	g.Join(a)
	g.Join(b)
	g.Leave(a)
	g.Leave(a)

	g.ToRoom(ctx, proto.Status("after leave"))

	assert.Empty(t, connA.Messages())
	assert.Len(t, connB.Messages(), 1)
	assert.Equal(t, 1, g.Size())
}

func TestGateway_FailuresDoNotStopDelivery(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("redis down")}
	g := New("chess_room", pub)

	a, connA := newMember("a")
	b, connB := newMember("b")
	connA.FailWrites(errors.New("broken pipe"))
	g.Join(a)
	g.Join(b)

	g.ToRoom(ctx, proto.Status("still delivered"))

	assert.Empty(t, connA.Messages())
	assert.Equal(t, "still delivered", connB.Last().Message)
}

func TestGateway_Ping(t *testing.T) {
	g := New("chess_room", nil)
	a, connA := newMember("a")
	b, connB := newMember("b")
	g.Join(a)
	g.Join(b)

	g.Ping(context.Background())

	assert.Equal(t, 1, connA.Pings())
	assert.Equal(t, 1, connB.Pings())
	assert.Empty(t, connA.Messages())
}
