package realtime

import (
	"fmt"
	"sync"
	"testing"
)

type stubSession struct {
	name string
}

func (s *stubSession) Push(event string, payload interface{}) error { return nil }

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	s := &stubSession{name: "a"}

	r.Register("user-1", s)

	if !r.IsOnline("user-1") {
		t.Fatal("expected user-1 to be online after register")
	}
	if got := r.Lookup("user-1"); got != s {
		t.Fatalf("expected lookup to return the registered session, got %v", got)
	}
}

func TestRegistryReplaceSemantics(t *testing.T) {
	r := NewRegistry()
	first := &stubSession{name: "first"}
	second := &stubSession{name: "second"}

	r.Register("user-1", first)
	r.Register("user-1", second)

	if got := r.Lookup("user-1"); got != second {
		t.Fatalf("expected the second session after replacement, got %v", got)
	}
	if online := r.ListOnline(); len(online) != 1 {
		t.Fatalf("expected a single online entry after replacement, got %v", online)
	}
}

func TestRegistryUnregisterAbsentUser(t *testing.T) {
	r := NewRegistry()

	r.Unregister("never-registered")

	if r.IsOnline("never-registered") {
		t.Fatal("expected absent user to stay offline")
	}
	if got := r.Lookup("never-registered"); got != nil {
		t.Fatalf("expected nil lookup for absent user, got %v", got)
	}
}

func TestRegistryUnregisterRemovesEntry(t *testing.T) {
	r := NewRegistry()
	r.Register("user-1", &stubSession{})

	r.Unregister("user-1")

	if r.IsOnline("user-1") {
		t.Fatal("expected user to be offline after unregister")
	}
}

func TestRegistryUnregisterSessionSkipsReplacedEntry(t *testing.T) {
	r := NewRegistry()
	stale := &stubSession{name: "stale"}
	current := &stubSession{name: "current"}

	r.Register("user-1", stale)
	r.Register("user-1", current)

	// The stale connection dropping must not remove the replacement.
	r.UnregisterSession("user-1", stale)
	if !r.IsOnline("user-1") {
		t.Fatal("expected user to stay online after stale session cleanup")
	}
	if got := r.Lookup("user-1"); got != current {
		t.Fatalf("expected current session to survive, got %v", got)
	}

	r.UnregisterSession("user-1", current)
	if r.IsOnline("user-1") {
		t.Fatal("expected user offline after current session unregisters")
	}
}

func TestRegistryListOnline(t *testing.T) {
	r := NewRegistry()
	r.Register("user-1", &stubSession{})
	r.Register("user-2", &stubSession{})
	r.Register("user-3", &stubSession{})
	r.Unregister("user-2")

	online := r.ListOnline()
	if len(online) != 2 {
		t.Fatalf("expected 2 online users, got %v", online)
	}
	seen := make(map[string]bool, len(online))
	for _, id := range online {
		seen[id] = true
	}
	if !seen["user-1"] || !seen["user-3"] {
		t.Fatalf("unexpected online set: %v", online)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", i%10)
			r.Register(userID, &stubSession{})
			r.IsOnline(userID)
			r.Lookup(userID)
			r.ListOnline()
			if i%3 == 0 {
				r.Unregister(userID)
			}
		}(i)
	}
	wg.Wait()
}
