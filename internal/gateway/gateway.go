package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"ctchen222/chess-room/internal/events"
	"ctchen222/chess-room/internal/player"
	"ctchen222/chess-room/pkg/proto"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("gateway")

// Gateway fans server messages out to the connections of one room: the two
// players and any read-only viewers.
type Gateway struct {
	roomID    string
	publisher events.Publisher

	mu       sync.Mutex
	audience []*player.Player
}

// New returns a gateway for roomID. Room-wide messages are mirrored to
// publisher; a nil publisher disables mirroring.
func New(roomID string, publisher events.Publisher) *Gateway {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Gateway{roomID: roomID, publisher: publisher}
}

// Join adds p to the audience. Joining twice is a no-op.
func (g *Gateway) Join(p *player.Player) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, member := range g.audience {
		if member.ID == p.ID {
			return
		}
	}
	g.audience = append(g.audience, p)
}

// Leave removes p from the audience.
func (g *Gateway) Leave(p *player.Player) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, member := range g.audience {
		if member.ID == p.ID {
			g.audience = append(g.audience[:i], g.audience[i+1:]...)
			return
		}
	}
}

// Size returns the number of connections in the audience.
func (g *Gateway) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.audience)
}

// ToRoom sends message to every connection in join order and mirrors it to
// the publisher.
func (g *Gateway) ToRoom(ctx context.Context, message *proto.ServerToClientMessage) {
	ctx, span := tracer.Start(ctx, "gateway.ToRoom", trace.WithAttributes(
		attribute.String("room.id", g.roomID),
		attribute.String("message.type", message.Type),
	))
	defer span.End()

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling message")
		return
	}

	for _, p := range g.snapshot() {
		g.write(ctx, span, p, data)
	}

	if err := g.publisher.Publish(ctx, g.roomID, message.Type, data); err != nil {
		slog.ErrorContext(ctx, "failed to mirror room message", "room.id", g.roomID, "message.type", message.Type, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to mirror room message")
	}
}

// ToConnection sends message to p only.
func (g *Gateway) ToConnection(ctx context.Context, p *player.Player, message *proto.ServerToClientMessage) {
	ctx, span := tracer.Start(ctx, "gateway.ToConnection", trace.WithAttributes(
		attribute.String("room.id", g.roomID),
		attribute.String("player.id", p.ID),
		attribute.String("message.type", message.Type),
	))
	defer span.End()

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling message")
		return
	}
	g.write(ctx, span, p, data)
}

// Ping sends a websocket ping to every connection.
func (g *Gateway) Ping(ctx context.Context) {
	for _, p := range g.snapshot() {
		if err := p.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			slog.WarnContext(ctx, "Failed to send ping to player", "player.id", p.ID, "error", err)
		}
	}
}

func (g *Gateway) write(ctx context.Context, span trace.Span, p *player.Player, data []byte) {
	if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.ErrorContext(ctx, "error writing message to player", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error writing message to player")
	}
}

func (g *Gateway) snapshot() []*player.Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*player.Player, len(g.audience))
	copy(out, g.audience)
	return out
}
