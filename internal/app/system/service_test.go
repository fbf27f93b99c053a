package system

import (
	"context"
	"errors"
	"testing"
)

type fakeService struct {
	name     string
	startErr error
	stopErr  error
	events   *[]string
}

func (f *fakeService) Name() string { return f.name }

func (f *fakeService) Start(context.Context) error {
	*f.events = append(*f.events, "start:"+f.name)
	return f.startErr
}

func (f *fakeService) Stop(context.Context) error {
	*f.events = append(*f.events, "stop:"+f.name)
	return f.stopErr
}

func TestManagerStartsInOrderStopsInReverse(t *testing.T) {
	var events []string
	m := NewManager()
	for _, name := range []string{"a", "b", "c"} {
		if err := m.Register(&fakeService{name: name, events: &events}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	want := []string{"start:a", "start:b", "start:c", "stop:c", "stop:b", "stop:a"}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d: expected %s, got %s (all: %v)", i, want[i], events[i], events)
		}
	}
}

func TestManagerRollsBackOnStartFailure(t *testing.T) {
	var events []string
	m := NewManager()
	boom := errors.New("boom")

	_ = m.Register(&fakeService{name: "ok", events: &events})
	_ = m.Register(&fakeService{name: "bad", startErr: boom, events: &events})
	_ = m.Register(&fakeService{name: "never", events: &events})

	err := m.Start(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected start error, got %v", err)
	}

	want := []string{"start:ok", "start:bad", "stop:ok"}
	if len(events) != len(want) {
		t.Fatalf("expected rollback events %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, events)
		}
	}
}

func TestManagerRejectsDuplicateNames(t *testing.T) {
	var events []string
	m := NewManager()

	if err := m.Register(&fakeService{name: "dup", events: &events}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := m.Register(&fakeService{name: "dup", events: &events}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestManagerRejectsRegisterAfterStart(t *testing.T) {
	var events []string
	m := NewManager()
	_ = m.Register(&fakeService{name: "a", events: &events})

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer m.Stop(context.Background())

	if err := m.Register(&fakeService{name: "late", events: &events}); err == nil {
		t.Fatal("expected registration after start to fail")
	}
}
