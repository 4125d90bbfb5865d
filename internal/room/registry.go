package room

import (
	"ctchen222/chess-room/internal/game"
	"ctchen222/chess-room/internal/player"
)

type seat struct {
	player *player.Player
	color  game.Color
}

// Registry maps the connections of the two players to their colors.
// It holds at most two entries and at most one per color. Registry is not
// safe for concurrent use; the Room serializes access to it.
type Registry struct {
	seats []seat
}

func NewRegistry() *Registry {
	return &Registry{seats: make([]seat, 0, 2)}
}

// Join registers p and returns its color: White when the registry is empty,
// otherwise whichever color the remaining entry does not hold. It returns
// ErrRoomFull when both colors are taken.
func (r *Registry) Join(p *player.Player) (game.Color, error) {
	var color game.Color
	switch len(r.seats) {
	case 0:
		color = game.White
	case 1:
		color = r.seats[0].color.Opponent()
	default:
		return game.None, ErrRoomFull
	}
	r.seats = append(r.seats, seat{player: p, color: color})
	return color, nil
}

// Leave removes the connection with the given id. It reports whether the
// connection was registered.
func (r *Registry) Leave(id string) bool {
	for i, s := range r.seats {
		if s.player.ID == id {
			r.seats = append(r.seats[:i], r.seats[i+1:]...)
			return true
		}
	}
	return false
}

// OpponentOf returns the other registered connection, if any.
func (r *Registry) OpponentOf(id string) (*player.Player, bool) {
	if _, ok := r.RoleOf(id); !ok {
		return nil, false
	}
	for _, s := range r.seats {
		if s.player.ID != id {
			return s.player, true
		}
	}
	return nil, false
}

// RoleOf returns the color of a registered connection.
func (r *Registry) RoleOf(id string) (game.Color, bool) {
	for _, s := range r.seats {
		if s.player.ID == id {
			return s.color, true
		}
	}
	return game.None, false
}

// PlayerFor returns the connection playing color.
func (r *Registry) PlayerFor(color game.Color) (*player.Player, bool) {
	for _, s := range r.seats {
		if s.color == color {
			return s.player, true
		}
	}
	return nil, false
}

func (r *Registry) Size() int {
	return len(r.seats)
}

// Players returns the registered connections in join order.
func (r *Registry) Players() []*player.Player {
	out := make([]*player.Player, len(r.seats))
	for i, s := range r.seats {
		out[i] = s.player
	}
	return out
}
