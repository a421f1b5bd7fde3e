// Package hash stores passwords one way. Only the hash is persisted; login
// compares the submitted password against it.
package hash

// Hash hashes secrets and verifies plaintext against a stored hash.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}
