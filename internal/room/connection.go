package room

import (
	"context"
	"fmt"
	"log/slog"

	"ctchen222/chess-room/internal/player"
	"ctchen222/chess-room/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	msgSpectator    = "The game is full. You are a spectator."
	msgOpponentLeft = "Opponent disconnected. Game reset."
)

// ReadPump registers p with the room, pumps its frames into the room's event
// loop and reports the disconnect once reading fails. It blocks until then.
func (r *Room) ReadPump(ctx context.Context, p *player.Player) {
	ctx, span := tracer.Start(ctx, "room.ReadPump", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	if err := r.Connect(ctx, p); err != nil {
		slog.WarnContext(ctx, "Room refused connection", "player.id", p.ID, "room.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Room refused connection")
		p.Conn.Close()
		return
	}

	defer func() {
		p.Conn.Close()
		if err := r.Disconnect(context.WithoutCancel(ctx), p); err != nil {
			slog.WarnContext(ctx, "Failed to report disconnect", "player.id", p.ID, "room.id", r.ID, "error", err)
		}
	}()

	for {
		_, msg, err := p.Conn.ReadMessage()
		if err != nil {
			slog.InfoContext(ctx, "Player connection closed", "player.id", p.ID, "room.id", r.ID, "error", err)
			return
		}
		if err := r.Deliver(ctx, p, msg); err != nil {
			slog.WarnContext(ctx, "Failed to deliver message", "player.id", p.ID, "room.id", r.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to deliver message")
			return
		}
	}
}

// HandleConnect seats p as White or Black, or makes it a read-only viewer
// when both seats are taken. The game starts as soon as both seats are filled.
func (r *Room) HandleConnect(ctx context.Context, p *player.Player) {
	ctx, span := tracer.Start(ctx, "room.HandleConnect", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.gateway.Join(p)
	r.metrics.connections.Add(ctx, 1)

	color, err := r.registry.Join(p)
	if err != nil {
		r.spectators[p.ID] = p
		slog.InfoContext(ctx, "Room is full, connection joins as spectator", "player.id", p.ID, "room.id", r.ID)
		span.SetAttributes(attribute.Bool("player.spectator", true))

		r.gateway.ToConnection(ctx, p, proto.Status(msgSpectator))
		if r.state == StateInProgress {
			r.gateway.ToConnection(ctx, p, proto.Position(proto.TypeBoardUpdate, r.holder.FEN(), r.holder.Turn()))
		}
		return
	}

	span.SetAttributes(attribute.String("player.color", string(color)))
	slog.InfoContext(ctx, "Player assigned", "player.id", p.ID, "room.id", r.ID, "color", color)

	r.gateway.ToConnection(ctx, p, &proto.ServerToClientMessage{Type: proto.TypePlayerAssigned, Color: color})
	r.gateway.ToConnection(ctx, p, proto.Status(fmt.Sprintf("You are %s.", color.Title())))

	if r.registry.Size() == 2 && r.state != StateInProgress {
		r.startGame(ctx, proto.TypeGameStart)
		return
	}
	r.state = idleState(r.registry.Size())
}

// HandleDisconnect removes p. When p was a player the game is reset and the
// remaining participants are told so; viewers leave without side effects.
func (r *Room) HandleDisconnect(ctx context.Context, p *player.Player) {
	ctx, span := tracer.Start(ctx, "room.HandleDisconnect", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.gateway.Leave(p)
	r.metrics.connections.Add(ctx, -1)

	if !r.registry.Leave(p.ID) {
		delete(r.spectators, p.ID)
		slog.InfoContext(ctx, "Spectator disconnected", "player.id", p.ID, "room.id", r.ID)
		return
	}

	slog.InfoContext(ctx, "Player disconnected. Resetting game.", "player.id", p.ID, "room.id", r.ID, "state", r.state.String())
	r.holder.Reset()
	clear(r.rematch)
	r.state = idleState(r.registry.Size())

	r.gateway.ToRoom(ctx, proto.Status(msgOpponentLeft))
	r.gateway.ToRoom(ctx, &proto.ServerToClientMessage{Type: proto.TypeEnableNewGame})
}
