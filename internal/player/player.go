package player

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Player is one client connection to the room. Whether it plays white, black
// or only watches is decided by the room's registry, not stored here.
type Player struct {
	ID   string
	Conn Connection
}

// NewPlayer wraps conn under the given connection id.
func NewPlayer(id string, conn Connection) *Player {
	return &Player{ID: id, Conn: conn}
}
