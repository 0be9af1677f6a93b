package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/lyristudy/lyristudy-server/internal/model"
)

var _ model.PasswordHasher = (*Argon2)(nil)

// Argon2 hashes passwords with argon2id. Cost parameters come from
// configuration; the encoded form carries them so stored hashes survive
// parameter changes.
type Argon2 struct {
	time    uint32
	memKiB  uint32
	par     uint8
	saltLen uint32
	keyLen  uint32
}

// NewArgon2 creates a hasher with the given cost parameters. Zero values fall
// back to the OWASP-recommended defaults.
func NewArgon2(time, memKiB uint32, par uint8) *Argon2 {
	if time == 0 {
		time = 3
	}
	if memKiB == 0 {
		memKiB = 64 * 1024
	}
	if par == 0 {
		par = 2
	}
	return &Argon2{
		time:    time,
		memKiB:  memKiB,
		par:     par,
		saltLen: 16,
		keyLen:  32,
	}
}

// Hash derives an encoded argon2id hash with a fresh random salt.
func (a *Argon2) Hash(password string) (string, error) {
	salt := make([]byte, a.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, a.time, a.memKiB, a.par, a.keyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.memKiB,
		a.time,
		a.par,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))

	return encoded, nil
}

// Verify recomputes the hash with the parameters embedded in encodedHash and
// compares in constant time.
func (a *Argon2) Verify(password, encodedHash string) (bool, error) {
	params, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, params.time, params.memKiB, params.par, uint32(len(key)))

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func decodeHash(encodedHash string) (*Argon2, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, nil, errors.New("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return nil, nil, nil, errors.New("unsupported hash algorithm")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	params := &Argon2{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memKiB, &params.time, &params.par); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid cost parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid salt encoding: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid key encoding: %w", err)
	}

	return params, salt, key, nil
}
