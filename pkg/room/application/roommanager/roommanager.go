package roommanager

import (
	"encoding/json"
	"log"

	"github.com/meetlink/signal-service/pkg/room/application/devicepolicy"
	"github.com/meetlink/signal-service/pkg/room/domain/dto"
	"github.com/meetlink/signal-service/pkg/room/domain/entity"
	"github.com/meetlink/signal-service/pkg/room/infrastructure/repository"
)

// TokenVerifier checks a room token against the room id the peer asked
// for. Any returned error means the join is unauthorized; the cause is a
// diagnostic for logs only and is never surfaced to the client.
type TokenVerifier interface {
	Verify(token, expectedRoomID string) error
}

type RoomManager interface {
	HandleJoin(p *entity.Peer, roomID, token string, deviceInfo json.RawMessage) error
	HandleSignal(p *entity.Peer, msgType string, data json.RawMessage)
	HandleLeave(p *entity.Peer)
}

type DefaultRoomManager struct {
	roomRepo repository.RoomRepository
	verifier TokenVerifier
}

func NewDefaultRoomManager(roomRepo repository.RoomRepository, verifier TokenVerifier) *DefaultRoomManager {
	return &DefaultRoomManager{
		roomRepo: roomRepo,
		verifier: verifier,
	}
}

// HandleJoin admits p into roomID. On success the joined/peer-joined/ready
// notifications (and the relay-forcing advisory, when the policy fires)
// are delivered before returning; on failure the peer stays unjoined and
// the caller maps the error onto a notification.
//
// The capacity check and insert run under the room's own lock, and a room
// that a concurrent teardown just removed is detected via its Closed flag
// and recreated, so two racing joins can never both land in a full room.
func (rm *DefaultRoomManager) HandleJoin(p *entity.Peer, roomID, token string, deviceInfo json.RawMessage) error {
	if p.RoomID != "" {
		return entity.ErrAlreadyJoined
	}
	if roomID == "" || token == "" {
		return entity.ErrBadRequest
	}

	if err := rm.verifier.Verify(token, roomID); err != nil {
		log.Printf("INFO: join rejected for room %s: %v", roomID, err)
		return entity.ErrUnauthorized
	}

	var (
		role   entity.Role
		count  int
		others []*entity.Peer
		paired []*entity.Peer
		force  bool
	)

	for {
		room := rm.roomRepo.LoadOrStore(entity.NewRoom(roomID))

		room.MU.Lock()
		if room.Closed {
			// Lost a race against a teardown; the stale entry is already
			// gone from the repository. Retry with a fresh room.
			room.MU.Unlock()
			continue
		}

		if len(room.Peers) >= entity.MaxPeers {
			room.MU.Unlock()
			return entity.ErrRoomFull
		}

		p.Device = deviceInfo
		room.Peers = append(room.Peers, p)
		p.RoomID = roomID

		count = len(room.Peers)
		role, _ = room.RoleOf(p)
		others = room.Others(p)

		if count == entity.MaxPeers {
			paired = append([]*entity.Peer(nil), room.Peers...)
			force = devicepolicy.ForceRelay(room.Peers[0].Device, room.Peers[1].Device)
		}
		room.MU.Unlock()
		break
	}

	p.Conn.Send(dto.NewJoined(roomID, string(role), count))
	for _, peer := range others {
		peer.Conn.Send(dto.NewPeerJoined(roomID))
	}

	if len(paired) > 0 {
		if force {
			log.Printf("INFO: forcing relayed path for room %s", roomID)
			for _, peer := range paired {
				peer.Conn.Send(dto.NewForceRelay(roomID, devicepolicy.ForceRelayReason))
			}
		}
		for _, peer := range paired {
			peer.Conn.Send(dto.NewReady(roomID))
		}
	}

	log.Printf("INFO: peer joined room %s as %s (%d/%d)", roomID, role, count, entity.MaxPeers)
	return nil
}

// HandleSignal forwards a negotiation message verbatim to every other peer
// in the sender's room. Senders that are not in a room, and rooms that no
// longer exist, are silently ignored.
func (rm *DefaultRoomManager) HandleSignal(p *entity.Peer, msgType string, data json.RawMessage) {
	if p.RoomID == "" {
		return
	}

	room, err := rm.roomRepo.GetRoomByID(p.RoomID)
	if err != nil {
		return
	}

	room.MU.RLock()
	others := room.Others(p)
	room.MU.RUnlock()

	relayed := dto.NewSignal(msgType, data)
	for _, peer := range others {
		peer.Conn.Send(relayed)
	}
}

// HandleLeave removes p from its room, notifies whoever stays behind, and
// deletes the room once it is empty. Used both for the explicit leave
// message and as disconnect cleanup; a room that already vanished is a
// no-op.
func (rm *DefaultRoomManager) HandleLeave(p *entity.Peer) {
	roomID := p.RoomID
	if roomID == "" {
		return
	}
	p.RoomID = ""

	room, err := rm.roomRepo.GetRoomByID(roomID)
	if err != nil {
		return
	}

	var remaining []*entity.Peer

	room.MU.Lock()
	room.Remove(p)
	if len(room.Peers) == 0 {
		room.Closed = true
		rm.roomRepo.DeleteRoom(roomID)
	} else {
		remaining = append([]*entity.Peer(nil), room.Peers...)
	}
	room.MU.Unlock()

	for _, peer := range remaining {
		peer.Conn.Send(dto.NewLeave())
	}

	if len(remaining) == 0 {
		log.Printf("INFO: room %s is empty now, deleted", roomID)
	}
}
