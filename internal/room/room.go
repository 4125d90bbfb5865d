package room

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ctchen222/chess-room/internal/archive"
	"ctchen222/chess-room/internal/game"
	"ctchen222/chess-room/internal/player"
	"ctchen222/chess-room/pkg/proto"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("room")

// Broadcaster delivers server messages to the connections of the room.
type Broadcaster interface {
	Join(p *player.Player)
	Leave(p *player.Player)
	ToRoom(ctx context.Context, message *proto.ServerToClientMessage)
	ToConnection(ctx context.Context, p *player.Player, message *proto.ServerToClientMessage)
	Ping(ctx context.Context)
}

type eventKind int

const (
	eventConnect eventKind = iota
	eventDisconnect
	eventMessage
)

type roomEvent struct {
	kind    eventKind
	player  *player.Player
	message []byte
}

// Room is the session controller of a single chess game shared by two
// players. Every handler runs under mu, so handlers never interleave.
type Room struct {
	ID        string
	holder    *game.Holder
	registry  *Registry
	gateway   Broadcaster
	archiver  archive.Archiver
	heartbeat time.Duration
	metrics   *roomMetrics

	mu         sync.Mutex
	state      State
	rematch    map[string]struct{}
	spectators map[string]*player.Player
	startedAt  time.Time

	inbound chan roomEvent
	done    chan struct{}
}

// NewRoom creates a room around holder. A nil archiver disables the game
// archive; a zero heartbeat disables keepalive pings.
func NewRoom(id string, holder *game.Holder, gateway Broadcaster, archiver archive.Archiver, heartbeat time.Duration) *Room {
	if archiver == nil {
		archiver = archive.Disabled{}
	}
	return &Room{
		ID:         id,
		holder:     holder,
		registry:   NewRegistry(),
		gateway:    gateway,
		archiver:   archiver,
		heartbeat:  heartbeat,
		metrics:    newRoomMetrics(),
		state:      StateEmpty,
		rematch:    make(map[string]struct{}),
		spectators: make(map[string]*player.Player),
		inbound:    make(chan roomEvent, 64),
		done:       make(chan struct{}),
	}
}

// Run is the room's event loop. Connect, Disconnect and Deliver queue events
// that Run processes one at a time until ctx is cancelled. Run must be called
// at most once.
func (r *Room) Run(ctx context.Context) error {
	defer close(r.done)

	var ping <-chan time.Time
	if r.heartbeat > 0 {
		ticker := time.NewTicker(r.heartbeat)
		defer ticker.Stop()
		ping = ticker.C
	}

	slog.InfoContext(ctx, "Room started", "room.id", r.ID)
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Room run loop stopping.", "room.id", r.ID)
			return ctx.Err()

		case ev := <-r.inbound:
			switch ev.kind {
			case eventConnect:
				r.HandleConnect(ctx, ev.player)
			case eventDisconnect:
				r.HandleDisconnect(ctx, ev.player)
			case eventMessage:
				r.HandleMessage(ctx, ev.player, ev.message)
			}

		case <-ping:
			r.mu.Lock()
			r.gateway.Ping(ctx)
			r.mu.Unlock()
		}
	}
}

// Connect queues the arrival of p.
func (r *Room) Connect(ctx context.Context, p *player.Player) error {
	return r.enqueue(ctx, roomEvent{kind: eventConnect, player: p})
}

// Disconnect queues the departure of p.
func (r *Room) Disconnect(ctx context.Context, p *player.Player) error {
	return r.enqueue(ctx, roomEvent{kind: eventDisconnect, player: p})
}

// Deliver queues a raw client message from p.
func (r *Room) Deliver(ctx context.Context, p *player.Player, message []byte) error {
	return r.enqueue(ctx, roomEvent{kind: eventMessage, player: p, message: message})
}

func (r *Room) enqueue(ctx context.Context, ev roomEvent) error {
	select {
	case <-r.done:
		return ErrClosed
	default:
	}

	select {
	case r.inbound <- ev:
		return nil
	case <-r.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PlayerInfo is a registered player in a Snapshot.
type PlayerInfo struct {
	ID    string     `json:"id"`
	Color game.Color `json:"color"`
}

// Snapshot is a read-only view of the session.
type Snapshot struct {
	RoomID       string       `json:"roomId"`
	State        string       `json:"state"`
	FEN          string       `json:"fen"`
	Turn         string       `json:"turn"`
	Players      []PlayerInfo `json:"players"`
	Spectators   int          `json:"spectators"`
	RematchVotes []string     `json:"rematchVotes"`
	Moves        []string     `json:"moves"`
}

// Snapshot returns the current session state.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]PlayerInfo, 0, r.registry.Size())
	votes := make([]string, 0, len(r.rematch))
	for _, p := range r.registry.Players() {
		color, _ := r.registry.RoleOf(p.ID)
		players = append(players, PlayerInfo{ID: p.ID, Color: color})
		if _, ok := r.rematch[p.ID]; ok {
			votes = append(votes, p.ID)
		}
	}

	return Snapshot{
		RoomID:       r.ID,
		State:        r.state.String(),
		FEN:          r.holder.FEN(),
		Turn:         r.holder.Turn().Code(),
		Players:      players,
		Spectators:   len(r.spectators),
		RematchVotes: votes,
		Moves:        r.holder.Moves(),
	}
}

// State returns the current lifecycle stage.
func (r *Room) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
