// Package shortlink maps short opaque codes to room/token pairs with an
// absolute expiry. Codes are multi-use until they expire; a periodic sweep
// evicts dead entries, but validity is always decided at resolve time.
package shortlink

import (
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	"sync"
	"time"
)

// Kind selects the client page a resolved link should land on.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

var ErrNotFound = errors.New("link not found")

const (
	codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8
)

type Entry struct {
	Code      string
	RoomID    string
	Token     string
	Kind      Kind
	ExpiresAt time.Time
}

type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry

	sweepEvery time.Duration
	now        func() time.Time
	done       chan struct{}
	stopOnce   sync.Once
}

func NewStore(sweepEvery time.Duration) *Store {
	return &Store{
		entries:    make(map[string]Entry),
		sweepEvery: sweepEvery,
		now:        time.Now,
		done:       make(chan struct{}),
	}
}

// Create stores a new entry under a freshly generated code and returns the
// code. Generation retries until the code collides with no live entry.
func (s *Store) Create(kind Kind, roomID, token string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		if _, taken := s.entries[code]; taken {
			continue
		}

		s.entries[code] = Entry{
			Code:      code,
			RoomID:    roomID,
			Token:     token,
			Kind:      kind,
			ExpiresAt: s.now().Add(ttl),
		}
		return code, nil
	}
}

// Resolve returns the entry for code. An entry past its expiry is
// ErrNotFound even when the sweep has not removed it yet.
func (s *Store) Resolve(code string) (Entry, error) {
	s.mu.RLock()
	entry, ok := s.entries[code]
	s.mu.RUnlock()

	if !ok || !entry.ExpiresAt.After(s.now()) {
		return Entry{}, ErrNotFound
	}

	return entry, nil
}

// Start launches the background sweeper.
func (s *Store) Start() {
	go s.sweepLoop()
}

// Stop ends the background sweeper. Safe to call more than once.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

func (s *Store) sweepLoop() {
	ticker := time.NewTicker(s.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

// sweep evicts expired entries. Dead codes are collected under the read
// lock first, so resolution is never blocked for the length of the scan
// and the map is not mutated mid-iteration.
func (s *Store) sweep() {
	now := s.now()

	s.mu.RLock()
	var expired []string
	for code, entry := range s.entries {
		if !entry.ExpiresAt.After(now) {
			expired = append(expired, code)
		}
	}
	s.mu.RUnlock()

	if len(expired) == 0 {
		return
	}

	s.mu.Lock()
	for _, code := range expired {
		if entry, ok := s.entries[code]; ok && !entry.ExpiresAt.After(now) {
			delete(s.entries, code)
		}
	}
	s.mu.Unlock()

	log.Printf("INFO: swept %d expired short links", len(expired))
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
