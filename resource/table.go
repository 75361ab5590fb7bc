package resource

import (
	"sync"
)

// UnifiedTable is the handle registry: a LocalBackend for storage plus the
// observers notified of every lifecycle change. Handles of all types share
// one slot space; typed access goes through Typed.
type UnifiedTable struct {
	backend *LocalBackend

	obsMu     sync.RWMutex
	observers []Observer
}

// NewTable creates an empty table.
func NewTable() *UnifiedTable {
	return &UnifiedTable{backend: NewLocalBackend()}
}

// Insert stores value under typeID. It returns 0 when the table is full.
func (t *UnifiedTable) Insert(typeID uint32, value any) Handle {
	h, err := t.backend.Create(typeID, value)
	if err != nil {
		return 0
	}
	t.notify(Event{Type: EventCreated, Handle: h, TypeID: typeID, Value: value})
	return h
}

// Get returns the value behind a live handle of any type.
func (t *UnifiedTable) Get(handle Handle) (any, bool) {
	return t.backend.Get(handle)
}

// GetTyped returns the value only if the handle is live and of typeID.
func (t *UnifiedTable) GetTyped(handle Handle, typeID uint32) (any, bool) {
	v, id, ok := t.backend.getWithType(handle)
	if !ok || id != typeID {
		return nil, false
	}
	return v, true
}

// Remove drops a value and runs its Dropper. It fails for dead handles and
// for values with outstanding borrows.
func (t *UnifiedTable) Remove(handle Handle) (any, bool) {
	_, id, _ := t.backend.getWithType(handle)
	v, ok := t.backend.Drop(handle)
	if !ok {
		return nil, false
	}
	if d, ok := v.(Dropper); ok {
		d.Drop()
	}
	t.notify(Event{Type: EventDropped, Handle: handle, TypeID: id, Value: v})
	return v, true
}

// Borrow pins a live value against Remove until ReturnBorrow.
func (t *UnifiedTable) Borrow(handle Handle) bool {
	if !t.backend.Borrow(handle) {
		return false
	}
	id, _ := t.backend.TypeID(handle)
	t.notify(Event{Type: EventBorrowed, Handle: handle, TypeID: id})
	return true
}

// ReturnBorrow releases one borrow.
func (t *UnifiedTable) ReturnBorrow(handle Handle) bool {
	if !t.backend.ReturnBorrow(handle) {
		return false
	}
	id, _ := t.backend.TypeID(handle)
	t.notify(Event{Type: EventBorrowReturned, Handle: handle, TypeID: id})
	return true
}

// Borrowed reports whether handle has outstanding borrows.
func (t *UnifiedTable) Borrowed(handle Handle) bool {
	return t.backend.Borrowed(handle)
}

// Subscribe adds an observer. Observers run synchronously on the goroutine
// making the change and must not call back into the table.
func (t *UnifiedTable) Subscribe(o Observer) {
	t.obsMu.Lock()
	t.observers = append(t.observers, o)
	t.obsMu.Unlock()
}

// Len returns the number of live values.
func (t *UnifiedTable) Len() int {
	return t.backend.Len()
}

func (t *UnifiedTable) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
