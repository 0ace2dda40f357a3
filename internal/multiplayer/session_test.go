package multiplayer

import "testing"

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("p1", 2)
	for _, msg := range []string{"one", "two", "three"} {
		s.Send(MessageEvent{Message: msg})
	}

	if got := s.Dropped(); got != 1 {
		t.Errorf("Dropped = %d, want 1", got)
	}
	evts := drain(s)
	if len(evts) != 2 {
		t.Fatalf("buffered = %d, want 2", len(evts))
	}
	for i, want := range []string{"two", "three"} {
		if got := evts[i].(MessageEvent).Message; got != want {
			t.Errorf("event[%d] = %q, want %q", i, got, want)
		}
	}
}

func TestChannelSessionClose(t *testing.T) {
	s := NewChannelSession("p1", 0)
	s.Close()
	s.Close()

	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed")
	}

	s.Send(MessageEvent{Message: "late"})
	if evts := drain(s); len(evts) != 0 {
		t.Errorf("closed session buffered %d events", len(evts))
	}
}

func TestRegistryRebind(t *testing.T) {
	r := NewSessionRegistry()
	first := NewChannelSession("p1", 4)
	second := NewChannelSession("p1", 4)

	if prev := r.Register(first); prev != nil {
		t.Errorf("first Register returned %v", prev)
	}
	if prev := r.Register(first); prev != nil {
		t.Error("re-registering the same handle reported a replacement")
	}
	if prev := r.Register(second); prev != first {
		t.Error("Register did not return the replaced handle")
	}
	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1", r.Count())
	}

	if r.Unregister("p1", first) {
		t.Error("stale handle unregistered the live binding")
	}
	if !r.SendTo("p1", MessageEvent{Message: "hi"}) {
		t.Fatal("SendTo failed for bound id")
	}
	if len(drain(second)) != 1 || len(drain(first)) != 0 {
		t.Error("event went to the wrong handle")
	}

	if !r.Unregister("p1", second) {
		t.Error("Unregister of the bound handle failed")
	}
	if r.SendTo("p1", MessageEvent{}) {
		t.Error("SendTo succeeded after unregister")
	}
}

func TestRegistryBroadcast(t *testing.T) {
	r := NewSessionRegistry()
	a := NewChannelSession("a", 4)
	b := NewChannelSession("b", 4)
	r.Register(a)
	r.Register(b)

	r.Broadcast(LobbyListEvent{})
	if len(drain(a)) != 1 || len(drain(b)) != 1 {
		t.Error("broadcast did not reach every session")
	}
}

func TestDefaultName(t *testing.T) {
	tests := []struct {
		id   SessionID
		want string
	}{
		{"0f3a9c2e-1111", "Player-0f3a"},
		{"ab", "Player-ab"},
	}
	for _, tt := range tests {
		if got := DefaultName(tt.id); got != tt.want {
			t.Errorf("DefaultName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
