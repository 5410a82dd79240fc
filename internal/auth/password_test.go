package auth

import (
	"strings"
	"testing"
)

// newTestPasswordService returns a PasswordService with a tiny iteration
// count so tests run in microseconds instead of hundreds of milliseconds.
func newTestPasswordService() *PasswordService {
	return newPasswordServiceWithIterations(10)
}

// =========================================================================
// Hash TESTS
// =========================================================================

func TestHash_EncodedFormat(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("my-secret-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !strings.HasPrefix(hash, "pbkdf2:sha256:10$") {
		t.Errorf("Hash() = %q, want pbkdf2:sha256:10$ prefix", hash)
	}
	if got := strings.Count(hash, "$"); got != 2 {
		t.Errorf("Hash() has %d '$' separators, want 2", got)
	}
}

func TestHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	ps := newTestPasswordService()

	// The salt is random per call, so two hashes for the same password
	// must differ.
	hash1, _ := ps.Hash("same-password")
	hash2, _ := ps.Hash("same-password")

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password (salt must be random)")
	}
}

func TestHash_SaltLength(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	_, salt, _, err := decodeHash(hash)
	if err != nil {
		t.Fatalf("decodeHash() error = %v", err)
	}
	if len(salt) != saltLength {
		t.Errorf("salt length = %d, want %d", len(salt), saltLength)
	}
}

// =========================================================================
// Verify TESTS
// =========================================================================

func TestVerify_CorrectPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() with correct password error = %v, want nil", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "incorrect"); err == nil {
		t.Error("Verify() with wrong password error = nil, want non-nil")
	}
}

func TestVerify_UsesStoredIterationCount(t *testing.T) {
	// A hash created with one work factor must still verify through a
	// service configured with another: the count lives in the hash.
	old := newPasswordServiceWithIterations(10)
	current := newPasswordServiceWithIterations(50)

	hash, err := old.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := current.Verify(hash, "password123"); err != nil {
		t.Errorf("Verify() across iteration counts error = %v, want nil", err)
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	ps := newTestPasswordService()

	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"missing separators", "pbkdf2:sha256:10"},
		{"unknown method", "bcrypt:12$abc$def"},
		{"bad iteration count", "pbkdf2:sha256:zero$abc$def"},
		{"bad salt encoding", "pbkdf2:sha256:10$!!!$def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ps.Verify(tt.encoded, "whatever"); err == nil {
				t.Errorf("Verify(%q) error = nil, want non-nil", tt.encoded)
			}
		})
	}
}
