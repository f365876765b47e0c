package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/meetlink/signal-service/pkg/room/application/roommanager"
	"github.com/meetlink/signal-service/pkg/room/domain/dto"
	"github.com/meetlink/signal-service/pkg/room/domain/entity"
	transport "github.com/meetlink/signal-service/pkg/room/infrastructure/ws"
)

// SignalingHandler upgrades /ws requests and runs one dispatch loop per
// connection. The loop is the connection's single reader; writes go
// through the transport's pump.
type SignalingHandler struct {
	roomManager roommanager.RoomManager
	upgrader    websocket.Upgrader
}

func NewSignalingHandler(roomManager roommanager.RoomManager) *SignalingHandler {
	return &SignalingHandler{
		roomManager: roomManager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *SignalingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("INFO: websocket upgrade failed: %v", err)
		return
	}

	conn := transport.NewConn(sock)
	go conn.WritePump()

	peer := &entity.Peer{
		ID:   uuid.NewString(),
		Conn: conn,
	}

	// Abrupt disconnects get the same room cleanup as an explicit leave.
	defer func() {
		h.roomManager.HandleLeave(peer)
		conn.Close()
	}()

	for {
		raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("INFO: websocket read error: %v", err)
			}
			return
		}
		h.dispatch(peer, raw)
	}
}

// dispatch routes one raw client frame. Frames that do not parse, or that
// carry no type tag, are dropped without a response; a parseable frame
// with an unrecognized type gets an error notification back, but only on
// a joined connection — everything except join from an unjoined peer
// falls under the silent ignore-policy. No frame is ever fatal to the
// connection.
func (h *SignalingHandler) dispatch(p *entity.Peer, raw []byte) {
	var msg dto.Envelope
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	if msg.Type == "" {
		return
	}

	if msg.Type == dto.TypeJoin {
		h.handleJoin(p, msg)
		return
	}

	if p.RoomID == "" {
		return
	}

	switch msg.Type {
	case dto.TypeOffer, dto.TypeAnswer, dto.TypeCandidate, dto.TypeForceRelay:
		h.roomManager.HandleSignal(p, msg.Type, msg.Data)

	case dto.TypeLeave:
		h.roomManager.HandleLeave(p)

	default:
		p.Conn.Send(dto.NewError(fmt.Sprintf("Unknown type: %s", msg.Type)))
	}
}

func (h *SignalingHandler) handleJoin(p *entity.Peer, msg dto.Envelope) {
	err := h.roomManager.HandleJoin(p, msg.RoomID, msg.Token, msg.DeviceInfo)
	switch {
	case err == nil:

	case errors.Is(err, entity.ErrRoomFull):
		p.Conn.Send(dto.NewFull(msg.RoomID))

	case errors.Is(err, entity.ErrUnauthorized):
		p.Conn.Send(dto.NewError(entity.ErrUnauthorized.Error()))

	default:
		// ErrBadRequest, ErrAlreadyJoined and anything unexpected.
		p.Conn.Send(dto.NewError(err.Error()))
	}
}
