package entity

import "sync"

// MaxPeers is the room capacity. Rooms pair exactly two participants.
const MaxPeers = 2

// Role of a participant within a room, derived from arrival order.
type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// Room is a rendezvous point for at most two peers. All fields except ID
// are guarded by MU; the repository only maps ids to rooms, every mutation
// of the peer set happens under the room's own lock.
type Room struct {
	ID string

	// Peers holds connected participants in arrival order.
	Peers []*Peer

	// Closed marks a room that was removed from the repository after its
	// last peer left. A join that loaded the room concurrently must treat
	// it as gone and create a fresh one.
	Closed bool

	MU *sync.RWMutex
}

func NewRoom(id string) *Room {
	return &Room{
		ID: id,
		MU: &sync.RWMutex{},
	}
}

// RoleOf derives a peer's role from its position in the arrival order.
// Caller holds MU.
func (r *Room) RoleOf(p *Peer) (Role, bool) {
	for i, peer := range r.Peers {
		if peer == p {
			if i == 0 {
				return RoleHost, true
			}
			return RoleGuest, true
		}
	}
	return "", false
}

// Others returns every peer in the room except p. Caller holds MU.
func (r *Room) Others(p *Peer) []*Peer {
	others := make([]*Peer, 0, len(r.Peers))
	for _, peer := range r.Peers {
		if peer != p {
			others = append(others, peer)
		}
	}
	return others
}

// Remove deletes p from the peer set, keeping arrival order intact.
// Caller holds MU.
func (r *Room) Remove(p *Peer) {
	for i, peer := range r.Peers {
		if peer == p {
			r.Peers = append(r.Peers[:i], r.Peers[i+1:]...)
			return
		}
	}
}
