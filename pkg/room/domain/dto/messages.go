package dto

import "encoding/json"

// Client message types.
const (
	TypeJoin       = "join"
	TypeOffer      = "offer"
	TypeAnswer     = "answer"
	TypeCandidate  = "candidate"
	TypeForceRelay = "force-relay"
	TypeLeave      = "leave"
)

// Server notification types.
const (
	TypeJoined     = "joined"
	TypePeerJoined = "peer-joined"
	TypeReady      = "ready"
	TypeFull       = "full"
	TypeError      = "error"
)

// Envelope is the inbound wire format: a type tag plus the optional fields
// the individual message types use. Negotiation payloads stay opaque in
// Data.
type Envelope struct {
	Type       string          `json:"type"`
	RoomID     string          `json:"roomId,omitempty"`
	Token      string          `json:"token,omitempty"`
	DeviceInfo json.RawMessage `json:"deviceInfo,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// Joined confirms admission to the newly joined peer.
type Joined struct {
	Type       string `json:"type"`
	RoomID     string `json:"roomId"`
	Role       string `json:"role"`
	PeersCount int    `json:"peersCount"`
}

func NewJoined(roomID, role string, peersCount int) Joined {
	return Joined{Type: TypeJoined, RoomID: roomID, Role: role, PeersCount: peersCount}
}

// PeerJoined tells peers already in a room that someone else arrived.
type PeerJoined struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

func NewPeerJoined(roomID string) PeerJoined {
	return PeerJoined{Type: TypePeerJoined, RoomID: roomID}
}

// Ready tells both peers the room is paired and negotiation may begin.
type Ready struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

func NewReady(roomID string) Ready {
	return Ready{Type: TypeReady, RoomID: roomID}
}

// Full rejects a join against a room that already holds two peers. It is a
// distinct notification, not an error: the condition is expected and the
// client may retry.
type Full struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

func NewFull(roomID string) Full {
	return Full{Type: TypeFull, RoomID: roomID}
}

// ForceRelay is the advisory emitted by the device policy when both peers
// should skip direct connectivity and use a relayed media path.
type ForceRelay struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}

func NewForceRelay(roomID, reason string) ForceRelay {
	return ForceRelay{Type: TypeForceRelay, RoomID: roomID, Reason: reason}
}

// Leave tells the remaining peer its counterpart is gone.
type Leave struct {
	Type string `json:"type"`
}

func NewLeave() Leave {
	return Leave{Type: TypeLeave}
}

// Error carries a diagnostic back to the sender of a bad message.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) Error {
	return Error{Type: TypeError, Message: message}
}

// Signal is a relayed negotiation message: the original type tag plus the
// untouched payload.
type Signal struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func NewSignal(msgType string, data json.RawMessage) Signal {
	return Signal{Type: msgType, Data: data}
}
