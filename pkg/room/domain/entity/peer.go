package entity

import "encoding/json"

// Notifier delivers an outbound notification to a participant. Delivery is
// best effort: implementations must never block, and a failed or dropped
// send is not an error the broadcaster cares about.
type Notifier interface {
	Send(v interface{}) error
}

// Peer is one live signaling connection. RoomID and Device are written
// only from the peer's own read goroutine (join/leave run there); other
// goroutines observe Device through the room lock during policy checks.
type Peer struct {
	ID string

	// RoomID is empty until the peer has been admitted to a room.
	RoomID string

	// Device is the self-reported device payload from the join message.
	// Opaque to the broker except for the relay-forcing policy.
	Device json.RawMessage

	Conn Notifier
}
