package owneddrop

// OwnedDropper is implemented by types whose cleanup consumes the value.
// DropOwned receives the instance by value and is free to move its contents
// into by-value APIs without copying. The method is called at most once per
// guarded value; any failure behavior (panic, log, ignore) is the
// implementor's responsibility.
type OwnedDropper interface {
	DropOwned()
}

// Guard owns a single value of an OwnedDropper type and forwards it to
// DropOwned exactly once when dropped. The zero Guard is not usable; create
// guards with New or NewChecked.
//
// A Guard is not safe for concurrent use. It is designed for the usual
// pattern of one owner per scope:
//
//	g := owneddrop.New(value)
//	defer g.Drop()
type Guard[T OwnedDropper] struct {
	value T
	taken bool
	flag  *dropFlag
}

// New creates a guard owning value. The caller must not use value after
// handing it over; access it through Value instead.
func New[T OwnedDropper](value T) *Guard[T] {
	return &Guard[T]{value: value}
}

// Value returns a pointer to the held value for reading and mutation while
// the guard is alive. After Drop or IntoInner the slot is zeroed and the
// returned pointer no longer refers to a live value; calling Value then is a
// lifetime bug in the caller, not a checked error.
func (g *Guard[T]) Value() *T {
	return &g.value
}

// Drop extracts the held value and passes it to DropOwned. The slot is
// marked taken and zeroed before the callback runs, so a second Drop is a
// no-op and a panicking callback cannot be re-entered by a later drop
// attempt. Panics from DropOwned propagate to the caller unmodified.
func (g *Guard[T]) Drop() {
	if g.taken {
		return
	}
	value := g.take()
	value.DropOwned()
}

// IntoInner extracts and returns the held value without invoking DropOwned,
// ending the guard's responsibility for it. A deferred Drop on the same
// guard becomes a no-op. Must not be called after Drop; doing so returns the
// zero value.
func (g *Guard[T]) IntoInner() T {
	if g.taken {
		var zero T
		return zero
	}
	return g.take()
}

// Close drops the guard and returns nil. It exists so guards satisfy
// io.Closer and can be handed to Closer-shaped teardown plumbing.
func (g *Guard[T]) Close() error {
	g.Drop()
	return nil
}

// take moves the value out of the slot and marks it taken. The ordering is
// the core invariant: taken is set and the slot zeroed before the value
// escapes, so no other path can see it as live again.
func (g *Guard[T]) take() T {
	value := g.value
	g.taken = true
	var zero T
	g.value = zero
	if g.flag != nil {
		g.flag.mark()
	}
	return value
}

// Scoped guards value for the duration of body and drops it on the way out,
// including when body panics. The value pointer passed to body is only valid
// inside body.
func Scoped[T OwnedDropper](value T, body func(*T)) {
	g := New(value)
	defer g.Drop()
	body(g.Value())
}
