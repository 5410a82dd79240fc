// Package auth provides password hashing and session identity.
//
// Passwords are stored as salted PBKDF2-SHA256 digests in a self-describing
// encoded form:
//
//	pbkdf2:sha256:600000$<base64 salt>$<base64 digest>
//
// The prefix names the algorithm and iteration count, so the count can be
// raised later without invalidating existing hashes: Verify reads the
// parameters back out of the stored string.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// defaultIterations is the PBKDF2 work factor for newly created hashes.
	// Tune so hashing takes a few hundred milliseconds on production hardware.
	defaultIterations = 600_000

	// saltLength is the random salt size in bytes.
	saltLength = 8

	// keyLength is the derived key size in bytes (SHA-256 output size).
	keyLength = 32

	hashPrefix = "pbkdf2:sha256"
)

// PasswordService provides PBKDF2 hashing and verification.
//
// It's a struct (not free functions) so the iteration count can be injected
// in tests. A low count makes tests fast without changing the logic under
// test.
type PasswordService struct {
	iterations int
}

// NewPasswordService creates a PasswordService with the default work factor.
func NewPasswordService() *PasswordService {
	return &PasswordService{iterations: defaultIterations}
}

// newPasswordServiceWithIterations is used by the tests in this package.
func newPasswordServiceWithIterations(iterations int) *PasswordService {
	return &PasswordService{iterations: iterations}
}

// NewPasswordServiceForTest creates a PasswordService with a reduced
// iteration count. Use in tests in other packages to avoid the cost of the
// full work factor per hashing operation. Do NOT use in production.
func NewPasswordServiceForTest(iterations int) *PasswordService {
	return &PasswordService{iterations: iterations}
}

// Hash derives a salted digest from the plaintext and returns the encoded
// string to store. A fresh random salt is drawn for every call, so two
// hashes of the same password differ.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth: generating salt: %w", err)
	}

	digest := pbkdf2.Key([]byte(plaintext), salt, p.iterations, keyLength, sha256.New)

	return fmt.Sprintf("%s:%d$%s$%s",
		hashPrefix,
		p.iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

// Verify checks whether a plaintext password matches a stored encoded hash.
// Returns nil if they match. The iteration count comes from the stored
// string, not from the service, so old hashes keep verifying after the
// default changes.
//
// The digest comparison is constant-time.
func (p *PasswordService) Verify(encoded, plaintext string) error {
	iterations, salt, digest, err := decodeHash(encoded)
	if err != nil {
		return err
	}

	candidate := pbkdf2.Key([]byte(plaintext), salt, iterations, len(digest), sha256.New)
	if subtle.ConstantTimeCompare(candidate, digest) != 1 {
		return fmt.Errorf("auth: invalid password")
	}
	return nil
}

// decodeHash splits an encoded hash into its parameters.
func decodeHash(encoded string) (iterations int, salt, digest []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 {
		return 0, nil, nil, fmt.Errorf("auth: malformed password hash")
	}

	countStr, ok := strings.CutPrefix(parts[0], hashPrefix+":")
	if !ok {
		return 0, nil, nil, fmt.Errorf("auth: unsupported hash method %q", parts[0])
	}
	iterations, err = strconv.Atoi(countStr)
	if err != nil || iterations < 1 {
		return 0, nil, nil, fmt.Errorf("auth: malformed iteration count %q", countStr)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return 0, nil, nil, fmt.Errorf("auth: decoding salt: %w", err)
	}
	digest, err = base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return 0, nil, nil, fmt.Errorf("auth: decoding digest: %w", err)
	}
	return iterations, salt, digest, nil
}
