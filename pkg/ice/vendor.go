// Package ice vends relay (TURN/STUN) server descriptors to clients. The
// list is fixed at startup, unrelated to room or token state, and safe to
// hand out without authorization.
package ice

import (
	"encoding/json"
	"fmt"
	"os"
)

// Server is one entry in the iceServers list handed to clients.
type Server struct {
	URLs       []string `json:"urls"`
	Username   string   `json:"username,omitempty"`
	Credential string   `json:"credential,omitempty"`
}

type Vendor struct {
	servers []Server
}

func NewVendor(servers []Server) *Vendor {
	return &Vendor{servers: servers}
}

// FromEnv builds the server list from the environment. ICE_SERVERS, when
// set, is a JSON array overriding everything else; otherwise the list is a
// default public STUN entry plus an optional TURN entry taken from
// TURN_URL / TURN_USERNAME / TURN_CREDENTIAL.
func FromEnv() (*Vendor, error) {
	if raw := os.Getenv("ICE_SERVERS"); raw != "" {
		var servers []Server
		if err := json.Unmarshal([]byte(raw), &servers); err != nil {
			return nil, fmt.Errorf("parse ICE_SERVERS: %w", err)
		}
		return NewVendor(servers), nil
	}

	servers := []Server{
		{URLs: []string{"stun:stun.l.google.com:19302"}},
	}
	if turnURL := os.Getenv("TURN_URL"); turnURL != "" {
		servers = append(servers, Server{
			URLs:       []string{turnURL},
			Username:   os.Getenv("TURN_USERNAME"),
			Credential: os.Getenv("TURN_CREDENTIAL"),
		})
	}

	return NewVendor(servers), nil
}

// Servers returns the vended list. Static after startup, safe for
// concurrent use.
func (v *Vendor) Servers() []Server {
	return v.servers
}
