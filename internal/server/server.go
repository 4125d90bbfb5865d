package server

import (
	"log/slog"
	"net/http"

	"ctchen222/chess-room/internal/api/controller"
	"ctchen222/chess-room/internal/api/response"
	"ctchen222/chess-room/internal/player"
	"ctchen222/chess-room/internal/room"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

type Server struct {
	room     *room.Room
	upgrader websocket.Upgrader
	engine   *gin.Engine
}

func NewServer(r *room.Room, sessionController *controller.SessionController) *Server {
	s := &Server{
		room: r,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/ws", s.handleWebSocket)
	engine.GET("/healthz", func(c *gin.Context) {
		response.SuccessResponseContent(c, "ok")
	})

	api := engine.Group("/api")
	api.GET("/session", sessionController.Snapshot)
	api.GET("/games", sessionController.ListGames)

	s.engine = engine
	return s
}

// Engine returns the HTTP handler of the server.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// handleWebSocket upgrades the connection, gives it a fresh id and hands it
// to the room. It returns once the connection is closed.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	p := player.NewPlayer(uuid.New().String(), conn)
	span.SetAttributes(attribute.String("player.id", p.ID))
	slog.InfoContext(ctx, "Connection opened", "player.id", p.ID, "remote", c.Request.RemoteAddr)

	s.room.ReadPump(ctx, p)
}
