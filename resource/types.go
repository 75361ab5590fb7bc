package resource

// Handle is an opaque reference to a resource in a table.
// Handle 0 is reserved and always invalid.
//
// The low bits select a slot and the high bits carry the slot's generation, so a
// handle kept after its resource was dropped never aliases a later resource that
// reuses the slot.
type Handle uint32

const (
	slotBits       = 20
	slotMask       = 1<<slotBits - 1
	generationMask = 1<<(32-slotBits) - 1

	// MaxSlots is the maximum number of simultaneously live resources per table.
	MaxSlots = slotMask
)

func makeHandle(slot int, generation uint32) Handle {
	return Handle(generation&generationMask)<<slotBits | Handle(slot+1)
}

func (h Handle) slot() int {
	return int(h&slotMask) - 1
}

func (h Handle) generation() uint32 {
	return uint32(h>>slotBits) & generationMask
}

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
	EventBorrowed
	EventBorrowReturned
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	case EventBorrowed:
		return "borrowed"
	case EventBorrowReturned:
		return "borrow_returned"
	default:
		return "unknown"
	}
}

// Event represents a resource lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	TypeID uint32
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// TypedTable provides type-safe access to resources of a specific type.
type TypedTable[T any] interface {
	// Insert adds a value and returns its handle.
	Insert(value T) Handle

	// Get retrieves a value by handle.
	Get(handle Handle) (T, bool)

	// Remove drops a resource and returns (value, true) if found.
	Remove(handle Handle) (T, bool)

	// Len returns the number of active resources.
	Len() int

	// Each iterates over all active resources.
	Each(func(Handle, T) bool)
}

// Dropper is optionally implemented by resource values that need cleanup.
type Dropper interface {
	Drop()
}
