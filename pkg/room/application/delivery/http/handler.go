package http

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/meetlink/signal-service/pkg/ice"
	"github.com/meetlink/signal-service/pkg/shortlink"
	"github.com/meetlink/signal-service/pkg/token"
)

// RoomHandler serves the REST surface around the signaling core: room
// creation, short-link resolution and relay credentials.
type RoomHandler struct {
	tokens  *token.Issuer
	links   *shortlink.Store
	vendor  *ice.Vendor
	roomTTL time.Duration
}

func NewRoomHandler(tokens *token.Issuer, links *shortlink.Store, vendor *ice.Vendor, roomTTL time.Duration) *RoomHandler {
	return &RoomHandler{
		tokens:  tokens,
		links:   links,
		vendor:  vendor,
		roomTTL: roomTTL,
	}
}

type CreateRoomRequest struct {
	Kind string `json:"kind"`
}

type CreateRoomResponse struct {
	RoomID    string `json:"roomId"`
	Token     string `json:"token"`
	Link      string `json:"link"`
	ExpiresIn int    `json:"expiresIn"`
}

// CreateRoomHandler mints a fresh room id, a token bound to it, and a
// short link wrapping both. The room itself materializes in the registry
// on the first join.
func (h *RoomHandler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if r.Body != nil {
		// An empty body means the default kind.
		json.NewDecoder(r.Body).Decode(&req)
	}

	kind := shortlink.KindVideo
	switch req.Kind {
	case "", string(shortlink.KindVideo):
	case string(shortlink.KindAudio):
		kind = shortlink.KindAudio
	default:
		http.Error(w, "unknown room kind", http.StatusBadRequest)
		return
	}

	roomID := uuid.NewString()

	roomToken, err := h.tokens.Issue(roomID, h.roomTTL)
	if err != nil {
		log.Printf("ERROR: issuing token for room %s: %v", roomID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	code, err := h.links.Create(kind, roomID, roomToken, h.roomTTL)
	if err != nil {
		log.Printf("ERROR: creating short link for room %s: %v", roomID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	log.Printf("INFO: created %s room %s (link /s/%s)", kind, roomID, code)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CreateRoomResponse{
		RoomID:    roomID,
		Token:     roomToken,
		Link:      "/s/" + code,
		ExpiresIn: int(h.roomTTL.Seconds()),
	})
}

// ResolveLinkHandler redirects a live short code to the client page for
// its kind, carrying roomId and token as query parameters. Unknown and
// expired codes are both a plain 404.
func (h *RoomHandler) ResolveLinkHandler(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	entry, err := h.links.Resolve(code)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	page := "/call"
	if entry.Kind == shortlink.KindAudio {
		page = "/voice"
	}

	q := url.Values{}
	q.Set("roomId", entry.RoomID)
	q.Set("token", entry.Token)

	http.Redirect(w, r, page+"?"+q.Encode(), http.StatusFound)
}

// IceServersHandler returns the relay credential list. No authorization
// required, idempotent, cacheable.
func (h *RoomHandler) IceServersHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"iceServers": h.vendor.Servers(),
	})
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
