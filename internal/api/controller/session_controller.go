package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"ctchen222/chess-room/internal/api/response"
	"ctchen222/chess-room/internal/archive"
	"ctchen222/chess-room/internal/room"

	"github.com/gin-gonic/gin"
)

const defaultGamesLimit = 20

// SessionSource exposes a read-only view of the running session.
type SessionSource interface {
	Snapshot() room.Snapshot
}

// SessionController serves read-only views of the session and its archive.
type SessionController struct {
	session SessionSource
	games   archive.Archiver
}

func NewSessionController(session SessionSource, games archive.Archiver) *SessionController {
	if games == nil {
		games = archive.Disabled{}
	}
	return &SessionController{
		session: session,
		games:   games,
	}
}

// Snapshot handles GET /api/session.
func (sc *SessionController) Snapshot(c *gin.Context) {
	response.SuccessResponse(c, sc.session.Snapshot())
}

type listGamesQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ListGames handles GET /api/games.
func (sc *SessionController) ListGames(c *gin.Context) {
	var q listGamesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultGamesLimit
	}

	games, err := sc.games.List(c.Request.Context(), q.Limit)
	if errors.Is(err, archive.ErrDisabled) {
		response.ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to list archived games", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "failed to list games")
		return
	}

	response.SuccessResponseList(c, "games", games)
}
