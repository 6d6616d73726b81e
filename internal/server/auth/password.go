package auth

import (
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest secret bcrypt consumes. Longer inputs are
// rejected instead of being silently truncated.
const MaxPasswordBytes = 72

// PasswordHasher hashes and verifies user passwords with bcrypt.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher returns a hasher using the given bcrypt work factor.
// A zero cost selects bcrypt.DefaultCost.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	// hash of a throwaway secret, compared against when the user is unknown
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	if err != nil {
		return nil, fmt.Errorf("error preparing dummy hash: %w", err)
	}

	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

// Hash returns a salted bcrypt hash of plain. Every call yields a different
// string for the same input.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", common.NewValidationError("password", fmt.Sprintf("Password must be at most %d bytes", MaxPasswordBytes))
	}

	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches hashed. Mismatches, malformed
// hashes and inputs longer than MaxPasswordBytes all return false.
func (h *PasswordHasher) Verify(plain, hashed string) bool {
	if len(plain) > MaxPasswordBytes {
		// bcrypt only reads the first 72 bytes; never match on a prefix
		h.DummyVerify(plain[:MaxPasswordBytes])
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// DummyVerify spends the same work as Verify without a real hash, so that
// a login for an unknown user takes as long as a wrong password.
func (h *PasswordHasher) DummyVerify(plain string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
}
