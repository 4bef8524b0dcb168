package core

import "context"

// Storage is a minimal key-value contract for persisting serialized blobs.
// The entry store keeps its whole collection under a single key, so adapters
// only need whole-value reads and writes.
type Storage interface {
	// Initialize ensures the underlying storage is ready (directories, schema, connectivity).
	Initialize(ctx context.Context) error

	// Get returns the value stored under key. ok is false when the key was never written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Watchable is implemented by storages that can report external changes.
type Watchable interface {
	// Watch emits an event whenever a key matching pattern changes.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Codec converts the dream collection to and from its persisted form.
type Codec interface {
	Name() string
	Encode(dreams []Dream) ([]byte, error)
	Decode(data []byte) ([]Dream, error)
}

// TagPolicy validates tag values before they are written.
type TagPolicy interface {
	CheckTags(tags []string) error
}

// EventType represents the type of change in the storage.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a stored key.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return string(e.Type) + " " + e.Key
}
