package registry

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	owndroperrors "github.com/wippyai/owned-drop/errors"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnGuardEvent(e Event) {
	o.events = append(o.events, e)
}

func TestGuardTable_Basic(t *testing.T) {
	table := NewTable()
	drops := 0

	// Insert
	h, err := table.Insert(1, &testDropper{name: "a", drops: &drops})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	// Get
	val, ok := table.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if val.(*testDropper).name != "a" {
		t.Fatalf("Expected 'a', got %v", val)
	}

	// GetTyped with correct type
	if _, ok = table.GetTyped(h, 1); !ok {
		t.Fatal("GetTyped with correct type failed")
	}

	// GetTyped with wrong type
	if _, ok = table.GetTyped(h, 2); ok {
		t.Fatal("GetTyped with wrong type should fail")
	}

	// Remove consumes the value exactly once
	if err := table.Remove(h); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if drops != 1 {
		t.Fatalf("Expected 1 drop, got %d", drops)
	}

	// Second Remove fails; the value is not consumed again
	if err := table.Remove(h); err == nil {
		t.Fatal("Expected second Remove to fail")
	}
	if drops != 1 {
		t.Fatalf("Expected exactly 1 drop, got %d", drops)
	}

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
}

func TestGuardTable_Release(t *testing.T) {
	table := NewTable()
	drops := 0

	h, _ := table.Insert(1, &testDropper{name: "a", drops: &drops})

	val, err := table.Release(h)
	if err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if val.(*testDropper).name != "a" {
		t.Fatalf("Expected 'a', got %v", val)
	}
	if drops != 0 {
		t.Fatalf("Release must not invoke DropOwned, got %d drops", drops)
	}
	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Release")
	}
}

func TestGuardTable_BorrowBlocksRemove(t *testing.T) {
	table := NewTable()
	drops := 0

	h, _ := table.Insert(1, &testDropper{drops: &drops})

	if !table.Borrow(h) {
		t.Fatal("Borrow failed")
	}

	err := table.Remove(h)
	if !errors.Is(err, &owndroperrors.Error{Phase: owndroperrors.PhaseRegistry, Kind: owndroperrors.KindBorrowed}) {
		t.Fatalf("Expected borrowed error, got %v", err)
	}
	if drops != 0 {
		t.Fatal("Borrowed value must not be dropped")
	}

	if !table.ReturnBorrow(h) {
		t.Fatal("ReturnBorrow failed")
	}
	if err := table.Remove(h); err != nil {
		t.Fatalf("Remove after borrow returned failed: %v", err)
	}
	if drops != 1 {
		t.Fatalf("Expected 1 drop, got %d", drops)
	}
}

func TestGuardTable_Observer(t *testing.T) {
	table := NewTable()
	drops := 0
	obs := &testObserver{}
	table.Subscribe(obs)

	// Insert should trigger EventCreated
	h, _ := table.Insert(1, &testDropper{drops: &drops})
	if len(obs.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(obs.events))
	}
	if obs.events[0].Type != EventCreated {
		t.Fatal("Expected EventCreated")
	}
	if obs.events[0].Handle != h {
		t.Fatal("Wrong handle in event")
	}

	// Borrow / ReturnBorrow events
	table.Borrow(h)
	table.ReturnBorrow(h)
	if len(obs.events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(obs.events))
	}
	if obs.events[1].Type != EventBorrowed || obs.events[2].Type != EventBorrowReturned {
		t.Fatal("Expected borrow event pair")
	}

	// Remove should trigger EventDropped
	table.Remove(h)
	if len(obs.events) != 4 {
		t.Fatalf("Expected 4 events, got %d", len(obs.events))
	}
	if obs.events[3].Type != EventDropped {
		t.Fatal("Expected EventDropped")
	}

	// Unsubscribe
	table.Unsubscribe(obs)
	table.Insert(1, &testDropper{drops: &drops})
	if len(obs.events) != 4 {
		t.Fatal("Should not receive events after Unsubscribe")
	}
}

func TestGuardTable_Clear(t *testing.T) {
	table := NewTable()
	drops := 0

	table.Insert(1, &testDropper{drops: &drops})
	table.Insert(1, &testDropper{drops: &drops})
	h3, _ := table.Insert(1, &testDropper{drops: &drops})

	table.Borrow(h3)
	table.Clear()

	if drops != 2 {
		t.Fatalf("Expected 2 drops after Clear, got %d", drops)
	}
	// The borrowed value survives
	if table.Len() != 1 {
		t.Fatalf("Expected borrowed value to survive Clear, Len() == %d", table.Len())
	}
}

func TestGuardTable_Close(t *testing.T) {
	table := NewTable()
	drops := 0

	table.Insert(1, &testDropper{drops: &drops})
	table.Insert(1, &testDropper{drops: &drops})

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if drops != 2 {
		t.Fatalf("Expected 2 drops on close, got %d", drops)
	}

	_, err := table.Insert(1, &testDropper{drops: &drops})
	if !errors.Is(err, &owndroperrors.Error{Phase: owndroperrors.PhaseRegistry, Kind: owndroperrors.KindClosed}) {
		t.Fatalf("Expected closed error, got %v", err)
	}
}

func TestLogObserver(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	table := NewTable()
	table.Subscribe(NewLogObserver(zap.New(core)))

	drops := 0
	h, _ := table.Insert(1, &testDropper{drops: &drops})
	table.Remove(h)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(entries))
	}
	if entries[0].ContextMap()["event"] != "created" {
		t.Fatalf("Expected created event, got %v", entries[0].ContextMap())
	}
	if entries[1].ContextMap()["event"] != "dropped" {
		t.Fatalf("Expected dropped event, got %v", entries[1].ContextMap())
	}
}
