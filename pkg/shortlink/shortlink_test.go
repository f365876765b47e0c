package shortlink

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCreateAndResolve(t *testing.T) {
	s := NewStore(time.Minute)

	code, err := s.Create(KindAudio, "room-1", "tok-1", time.Minute)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(code) != codeLength {
		t.Errorf("code length: got %d, want %d", len(code), codeLength)
	}
	for _, r := range code {
		if !strings.ContainsRune(codeAlphabet, r) {
			t.Errorf("code %q contains %q outside the alphabet", code, r)
		}
	}

	entry, err := s.Resolve(code)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if entry.RoomID != "room-1" || entry.Token != "tok-1" || entry.Kind != KindAudio {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestResolveUnknownCode(t *testing.T) {
	s := NewStore(time.Minute)

	if _, err := s.Resolve("nope1234"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

// Codes are multi-use: resolving must not consume the entry.
func TestResolveRepeatedly(t *testing.T) {
	s := NewStore(time.Minute)

	code, err := s.Create(KindVideo, "room-1", "tok-1", time.Minute)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.Resolve(code); err != nil {
			t.Fatalf("Resolve #%d failed: %v", i+1, err)
		}
	}
}

// An expired entry is unresolvable even before the sweep has removed it.
func TestExpiredEntryUnresolvableBeforeSweep(t *testing.T) {
	s := NewStore(time.Minute)

	base := time.Now()
	s.now = func() time.Time { return base }

	code, err := s.Create(KindVideo, "room-1", "tok-1", time.Minute)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	s.now = func() time.Time { return base.Add(2 * time.Minute) }

	if _, err := s.Resolve(code); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	// The sweep never ran; the entry is still physically present.
	s.mu.RLock()
	_, present := s.entries[code]
	s.mu.RUnlock()
	if !present {
		t.Error("entry removed without a sweep")
	}
}

func TestSweepEvictsOnlyExpired(t *testing.T) {
	s := NewStore(time.Minute)

	base := time.Now()
	s.now = func() time.Time { return base }

	expired, err := s.Create(KindVideo, "room-1", "tok-1", time.Minute)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	live, err := s.Create(KindVideo, "room-2", "tok-2", time.Hour)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	s.sweep()

	s.mu.RLock()
	_, expiredPresent := s.entries[expired]
	_, livePresent := s.entries[live]
	s.mu.RUnlock()

	if expiredPresent {
		t.Error("expired entry survived the sweep")
	}
	if !livePresent {
		t.Error("live entry removed by the sweep")
	}
}

func TestStartAndStopSweeper(t *testing.T) {
	s := NewStore(10 * time.Millisecond)
	s.Start()

	code, err := s.Create(KindVideo, "room-1", "tok-1", time.Hour)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	s.Stop()
	s.Stop() // idempotent

	// The store stays usable after the sweeper is gone.
	if _, err := s.Resolve(code); err != nil {
		t.Errorf("Resolve failed after Stop: %v", err)
	}
}

func TestConcurrentCreateResolveAndSweep(t *testing.T) {
	s := NewStore(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				code, err := s.Create(KindVideo, "room", "tok", time.Minute)
				if err != nil {
					t.Errorf("Create failed: %v", err)
					return
				}
				if _, err := s.Resolve(code); err != nil {
					t.Errorf("Resolve failed: %v", err)
					return
				}
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.sweep()
			}
		}()
	}
	wg.Wait()
}
