// Package kv defines the durable key-value primitive that learner state is
// persisted through.
package kv

// Storage is a small synchronous key-value store. Implementations must be
// safe for concurrent use.
type Storage interface {
	// Get returns the stored value for key. ok is false when the key has
	// never been written or was deleted.
	Get(key string) (value []byte, ok bool, err error)

	// Set replaces the value stored under key.
	Set(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}
