package v1

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters, following OWASP recommendations.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2SaltLen = 16        // salt length in bytes
	argon2KeyLen  = 32        // output length in bytes
)

// ErrPasswordMismatch is returned by Verify when the password does not
// match the hash. It is distinct from malformed-hash errors so callers can
// tell a wrong password from a corrupt stored value.
var ErrPasswordMismatch = errors.New("password mismatch")

// Argon2idHasher hashes and verifies passwords with argon2id, emitting
// self-describing PHC-format strings:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
//
// Hashing is CPU and memory heavy; keep it off hot paths.
type Argon2idHasher struct{}

// NewArgon2idHasher creates a new Argon2idHasher.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{}
}

// Hash produces an argon2id hash of the password with a fresh random salt.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
	return encoded, nil
}

// Verify re-derives the digest with the parameters embedded in encodedHash
// and compares in constant time. Returns nil on match, ErrPasswordMismatch
// on mismatch, or a descriptive error when the hash cannot be parsed.
func (h *Argon2idHasher) Verify(password, encodedHash string) error {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return fmt.Errorf("malformed hash: expected 6 segments, got %d", len(parts))
	}
	if parts[1] != "argon2id" {
		return fmt.Errorf("malformed hash: unsupported algorithm %q", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return fmt.Errorf("malformed hash: parse version: %w", err)
	}
	if version != argon2.Version {
		return fmt.Errorf("malformed hash: unsupported version %d", version)
	}

	var memory, time uint32
	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return fmt.Errorf("malformed hash: parse parameters: %w", err)
	}
	if threads == 0 || threads > 255 {
		return fmt.Errorf("malformed hash: parallelism %d out of range", threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("malformed hash: decode salt: %w", err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("malformed hash: decode digest: %w", err)
	}
	if len(expected) == 0 {
		return fmt.Errorf("malformed hash: empty digest")
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(len(expected)))

	if subtle.ConstantTimeCompare(computed, expected) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
