package room

import (
	"context"
	"log/slog"
	"time"

	"ctchen222/chess-room/internal/archive"
	"ctchen222/chess-room/internal/game"
	"ctchen222/chess-room/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// startGame puts the room in progress from the holder's current position and
// announces it with a message of msgType. Callers hold r.mu.
func (r *Room) startGame(ctx context.Context, msgType string) {
	r.state = StateInProgress
	r.startedAt = time.Now()
	clear(r.rematch)

	slog.InfoContext(ctx, "Game started", "room.id", r.ID)
	r.gateway.ToRoom(ctx, proto.Position(msgType, r.holder.FEN(), r.holder.Turn()))
}

// finishGame archives the finished game, resets the board and invites the
// players to start a new one. Callers hold r.mu and have already announced
// the outcome.
func (r *Room) finishGame(ctx context.Context, outcome game.Outcome) {
	ctx, span := tracer.Start(ctx, "room.finishGame", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.String("game.result", string(outcome.Result)),
	))
	defer span.End()

	r.metrics.gamesFinished.Add(ctx, 1, metricResult(outcome.Result))

	if err := r.archiver.Record(ctx, r.record(outcome)); err != nil {
		slog.ErrorContext(ctx, "failed to archive finished game", "room.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to archive finished game")
	}

	r.holder.Reset()
	if r.registry.Size() == 2 {
		r.state = StateEnded
	} else {
		r.state = idleState(r.registry.Size())
	}

	r.gateway.ToRoom(ctx, &proto.ServerToClientMessage{Type: proto.TypeEnableNewGame})
}

func (r *Room) record(outcome game.Outcome) archive.Record {
	rec := archive.Record{
		RoomID:     r.ID,
		Result:     string(outcome.Result),
		Winner:     string(outcome.Winner),
		DrawReason: outcome.DrawReason,
		Moves:      r.holder.Moves(),
		FinalFEN:   r.holder.FEN(),
		StartedAt:  r.startedAt,
		EndedAt:    time.Now(),
	}
	if p, ok := r.registry.PlayerFor(game.White); ok {
		rec.WhiteID = p.ID
	}
	if p, ok := r.registry.PlayerFor(game.Black); ok {
		rec.BlackID = p.ID
	}
	return rec
}

// allVoted reports whether both players asked for a new game.
func (r *Room) allVoted() bool {
	if r.registry.Size() < 2 {
		return false
	}
	for _, p := range r.registry.Players() {
		if _, ok := r.rematch[p.ID]; !ok {
			return false
		}
	}
	return true
}
