// Package store provides durable key-value byte storage backends used
// to persist chat state across sessions.
package store

// Store is an opaque get/set/delete-by-key byte store. A missing key
// is reported through the boolean, never as an error.
type Store interface {
	// Get returns the value stored under key, or found=false if the
	// key is absent.
	Get(key string) (value []byte, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Close releases the underlying database handle.
	Close() error
}
