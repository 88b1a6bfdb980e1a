package registry

import (
	"errors"
	"sync"
	"testing"

	owndroperrors "github.com/wippyai/owned-drop/errors"
)

type testDropper struct {
	name  string
	drops *int
}

func (d *testDropper) DropOwned() {
	*d.drops++
}

func TestLocalBackend_Basic(t *testing.T) {
	b := NewLocalBackend()
	drops := 0

	// Create a value
	handle, err := b.Create(1, &testDropper{name: "a", drops: &drops})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if handle == 0 {
		t.Fatal("Expected non-zero handle")
	}

	// Get it back
	val, ok := b.Get(handle)
	if !ok {
		t.Fatal("Get failed")
	}
	if val.(*testDropper).name != "a" {
		t.Fatalf("Expected 'a', got %v", val)
	}

	// Take it
	val, err = b.Take(handle)
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if val.(*testDropper).name != "a" {
		t.Fatalf("Expected 'a', got %v", val)
	}

	// Take never consumes
	if drops != 0 {
		t.Fatalf("Take must not invoke DropOwned, got %d drops", drops)
	}

	// Should not exist anymore
	if _, ok := b.Get(handle); ok {
		t.Fatal("Expected Get to fail after Take")
	}
	_, err = b.Take(handle)
	if !errors.Is(err, &owndroperrors.Error{Phase: owndroperrors.PhaseRegistry, Kind: owndroperrors.KindNotFound}) {
		t.Fatalf("Expected not_found, got %v", err)
	}
}

func TestLocalBackend_InvalidHandle(t *testing.T) {
	b := NewLocalBackend()

	if _, ok := b.Get(0); ok {
		t.Fatal("Handle 0 must be invalid")
	}
	_, err := b.Take(0)
	if !errors.Is(err, &owndroperrors.Error{Phase: owndroperrors.PhaseRegistry, Kind: owndroperrors.KindInvalidHandle}) {
		t.Fatalf("Expected invalid_handle, got %v", err)
	}
	if _, ok := b.Get(99); ok {
		t.Fatal("Out-of-range handle must be invalid")
	}
}

func TestLocalBackend_BorrowBlocksTake(t *testing.T) {
	b := NewLocalBackend()
	drops := 0

	handle, _ := b.Create(1, &testDropper{drops: &drops})

	if !b.Borrow(handle) {
		t.Fatal("Borrow failed")
	}

	_, err := b.Take(handle)
	if !errors.Is(err, &owndroperrors.Error{Phase: owndroperrors.PhaseRegistry, Kind: owndroperrors.KindBorrowed}) {
		t.Fatalf("Expected borrowed error, got %v", err)
	}

	if !b.ReturnBorrow(handle) {
		t.Fatal("ReturnBorrow failed")
	}
	if b.ReturnBorrow(handle) {
		t.Fatal("Expected second ReturnBorrow to fail")
	}

	if _, err := b.Take(handle); err != nil {
		t.Fatalf("Take after borrow returned failed: %v", err)
	}
}

func TestLocalBackend_HandleReuse(t *testing.T) {
	b := NewLocalBackend()
	drops := 0

	h1, _ := b.Create(1, &testDropper{name: "a", drops: &drops})
	if _, err := b.Take(h1); err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	// Freed handle should be reused
	h2, _ := b.Create(1, &testDropper{name: "b", drops: &drops})
	if h2 != h1 {
		t.Fatalf("Expected handle reuse %d, got %d", h1, h2)
	}
	val, ok := b.Get(h2)
	if !ok || val.(*testDropper).name != "b" {
		t.Fatalf("Expected 'b' at reused handle, got %v", val)
	}
}

func TestLocalBackend_Close(t *testing.T) {
	b := NewLocalBackend()
	drops := 0

	b.Create(1, &testDropper{drops: &drops})
	b.Create(1, &testDropper{drops: &drops})

	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if drops != 2 {
		t.Fatalf("Expected 2 drops on close, got %d", drops)
	}

	// Idempotent: remaining values are gone, nothing runs twice
	if err := b.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}
	if drops != 2 {
		t.Fatalf("Expected no extra drops, got %d", drops)
	}

	_, err := b.Create(1, &testDropper{drops: &drops})
	if !errors.Is(err, &owndroperrors.Error{Phase: owndroperrors.PhaseRegistry, Kind: owndroperrors.KindClosed}) {
		t.Fatalf("Expected closed error, got %v", err)
	}
}

func TestLocalBackend_ConcurrentAccess(t *testing.T) {
	b := NewLocalBackend()
	drops := 0
	handle, _ := b.Create(1, &testDropper{drops: &drops})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Get(handle)
				b.TypeID(handle)
				b.Len()
			}
		}()
	}
	wg.Wait()
}
