package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHandler struct {
	slog.Handler
}

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandler_RespectsEachLevel(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	log := slog.New(h)

	log.Debug("board reset", "room.id", "chess_room")
	log.Warn("write failed", "player.id", "p1")

	assert.Contains(t, debugBuf.String(), "board reset")
	assert.Contains(t, debugBuf.String(), "write failed")
	assert.NotContains(t, warnBuf.String(), "board reset")
	assert.Contains(t, warnBuf.String(), "player.id=p1")
}

func TestMultiHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewMultiHandler(slog.NewTextHandler(&buf, nil)))

	log.With("room.id", "chess_room").WithGroup("move").Info("applied", "uci", "e2e4")

	assert.Contains(t, buf.String(), "room.id=chess_room")
	assert.Contains(t, buf.String(), "move.uci=e2e4")
}

func TestMultiHandler_FailingHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(failingHandler{}, slog.NewTextHandler(&buf, nil))

	r := slog.NewRecord(testTime, slog.LevelInfo, "game over", 0)
	err := h.Handle(context.Background(), r)

	require.Error(t, err)
	assert.Contains(t, buf.String(), "game over")
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo)

	log.Debug("hidden")
	log.Info("shown", "player.id", "p1")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "source=")
}

var testTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
