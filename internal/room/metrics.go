package room

import (
	"log/slog"

	"ctchen222/chess-room/internal/game"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var meter = otel.Meter("room")

type roomMetrics struct {
	moves         metric.Int64Counter
	gamesFinished metric.Int64Counter
	connections   metric.Int64UpDownCounter
}

func newRoomMetrics() *roomMetrics {
	var (
		m   roomMetrics
		err error
	)

	m.moves, err = meter.Int64Counter("room.moves",
		metric.WithDescription("Moves submitted, by outcome"))
	if err != nil {
		slog.Warn("failed to create room.moves counter", "error", err)
		m.moves = noop.Int64Counter{}
	}

	m.gamesFinished, err = meter.Int64Counter("room.games.finished",
		metric.WithDescription("Finished games, by result"))
	if err != nil {
		slog.Warn("failed to create room.games.finished counter", "error", err)
		m.gamesFinished = noop.Int64Counter{}
	}

	m.connections, err = meter.Int64UpDownCounter("room.connections",
		metric.WithDescription("Open connections, players and spectators"))
	if err != nil {
		slog.Warn("failed to create room.connections counter", "error", err)
		m.connections = noop.Int64UpDownCounter{}
	}

	return &m
}

func metricOutcome(outcome string) metric.AddOption {
	return metric.WithAttributes(attribute.String("move.outcome", outcome))
}

func metricResult(result game.Result) metric.AddOption {
	return metric.WithAttributes(attribute.String("game.result", string(result)))
}
