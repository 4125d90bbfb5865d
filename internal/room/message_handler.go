package room

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"ctchen222/chess-room/internal/game"
	"ctchen222/chess-room/internal/player"
	"ctchen222/chess-room/internal/validator"
	"ctchen222/chess-room/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	msgNotStarted       = "The game has not started yet."
	msgInvalidFormat    = "Invalid move format."
	msgNotYourTurn      = "It's not your turn."
	msgInvalidMove      = "Invalid move."
	msgRematchRequested = "You requested a new game. Waiting for opponent..."
	msgNewGame          = "New game started! White moves first."
)

// HandleMessage handles a message from a connection. It acts as a dispatcher.
func (r *Room) HandleMessage(ctx context.Context, p *player.Player, rawMessage []byte) {
	ctx, span := tracer.Start(ctx, "room.HandleMessage", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		return
	}

	if err := validator.Check(message); err != nil {
		slog.WarnContext(ctx, "invalid message from player", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	r.mu.Lock()
	defer r.mu.Unlock()

	switch message.Type {
	case proto.TypeMove:
		if err := r.handleMove(ctx, p, message.Move); err != nil {
			slog.InfoContext(ctx, "Move rejected", "player.id", p.ID, "room.id", r.ID, "move", message.Move, "error", err)
		}
	case proto.TypeRequestNewGame:
		r.handleRematch(ctx, p)
	case proto.TypeForfeit:
		r.handleForfeit(ctx, p)
	}
}

// SubmitMove validates and applies moveSpec on behalf of p. A rejected move
// is answered with one status message to p and returned as an error.
func (r *Room) SubmitMove(ctx context.Context, p *player.Player, moveSpec string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handleMove(ctx, p, moveSpec)
}

// RequestRematch records that p wants a new game and starts one once both
// players asked.
func (r *Room) RequestRematch(ctx context.Context, p *player.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handleRematch(ctx, p)
}

// Forfeit ends the running game in favour of p's opponent.
func (r *Room) Forfeit(ctx context.Context, p *player.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handleForfeit(ctx, p)
}

func (r *Room) handleMove(ctx context.Context, p *player.Player, moveSpec string) error {
	ctx, moveSpan := tracer.Start(ctx, "room.handleMove", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
		attribute.String("move.spec", moveSpec),
	))
	defer moveSpan.End()

	if r.state != StateInProgress {
		r.rejectMove(ctx, moveSpan, p, ErrNotStarted, msgNotStarted, "not_started")
		return ErrNotStarted
	}

	role, _ := r.registry.RoleOf(p.ID)
	move, err := r.holder.TryApply(moveSpec, role)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrMalformedMove):
			r.rejectMove(ctx, moveSpan, p, err, msgInvalidFormat, "malformed")
		case errors.Is(err, game.ErrNotYourTurn):
			r.rejectMove(ctx, moveSpan, p, err, msgNotYourTurn, "not_your_turn")
		default:
			r.rejectMove(ctx, moveSpan, p, err, msgInvalidMove, "illegal")
		}
		return err
	}

	moveSpan.SetAttributes(attribute.Bool("move.valid", true))
	r.metrics.moves.Add(ctx, 1, metricOutcome("accepted"))
	slog.DebugContext(ctx, "Move applied", "player.id", p.ID, "room.id", r.ID, "move", move.String())

	r.gateway.ToRoom(ctx, proto.Position(proto.TypeBoardUpdate, r.holder.FEN(), r.holder.Turn()))

	if outcome := r.holder.TerminalCondition(); outcome.Terminal() {
		slog.InfoContext(ctx, "Game over", "room.id", r.ID, "result", outcome.Result, "winner", outcome.Winner)
		r.gateway.ToRoom(ctx, proto.GameOver(outcome))
		r.finishGame(ctx, outcome)
	}
	return nil
}

func (r *Room) rejectMove(ctx context.Context, span trace.Span, p *player.Player, err error, text, reason string) {
	span.SetAttributes(attribute.Bool("move.valid", false))
	span.RecordError(err)
	span.SetStatus(codes.Error, "Move rejected")
	r.metrics.moves.Add(ctx, 1, metricOutcome(reason))
	r.gateway.ToConnection(ctx, p, proto.Status(text))
}

func (r *Room) handleRematch(ctx context.Context, p *player.Player) {
	ctx, span := tracer.Start(ctx, "room.handleRematch", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	if _, ok := r.registry.RoleOf(p.ID); !ok {
		slog.WarnContext(ctx, "Rematch request from a connection that is not playing", "player.id", p.ID, "room.id", r.ID)
		span.SetStatus(codes.Error, "Rematch request from non-player")
		return
	}

	slog.InfoContext(ctx, "Player voted for a rematch", "player.id", p.ID, "room.id", r.ID)
	r.rematch[p.ID] = struct{}{}
	r.gateway.ToConnection(ctx, p, proto.Status(msgRematchRequested))
	r.gateway.ToRoom(ctx, &proto.ServerToClientMessage{Type: proto.TypeWaitingForOpponent})

	if !r.allVoted() {
		return
	}

	slog.InfoContext(ctx, "All players voted for a rematch. Resetting game.", "room.id", r.ID)
	r.holder.Reset()
	r.startGame(ctx, proto.TypeNewGameReady)
	r.gateway.ToRoom(ctx, proto.Status(msgNewGame))
}

func (r *Room) handleForfeit(ctx context.Context, p *player.Player) {
	ctx, span := tracer.Start(ctx, "room.handleForfeit", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	role, ok := r.registry.RoleOf(p.ID)
	if !ok || r.state != StateInProgress {
		slog.WarnContext(ctx, "Ignoring forfeit outside of a running game", "player.id", p.ID, "room.id", r.ID, "state", r.state.String())
		span.SetStatus(codes.Error, "Forfeit outside of a running game")
		return
	}

	slog.InfoContext(ctx, "Player forfeited", "player.id", p.ID, "room.id", r.ID, "color", role)
	if _, hasOpponent := r.registry.OpponentOf(p.ID); hasOpponent {
		outcome := game.Outcome{Result: game.Forfeit, Winner: role.Opponent()}
		r.gateway.ToRoom(ctx, proto.GameOver(outcome))
		r.finishGame(ctx, outcome)
		return
	}

	outcome := game.Outcome{Result: game.Forfeit, Winner: role}
	r.gateway.ToConnection(ctx, p, proto.GameOver(outcome))
	r.finishGame(ctx, outcome)
}
