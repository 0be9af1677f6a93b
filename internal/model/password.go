package model

// PasswordHasher derives and verifies slow, salted one-way password hashes.
// The plaintext never leaves the call.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}
