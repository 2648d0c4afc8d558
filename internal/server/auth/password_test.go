package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	for _, password := range []string{"SecurePass123!", "пароль-Unicode1", "with spaces 99X"} {
		record, err := h.Hash(password)
		if err != nil {
			t.Fatalf("Hash(%q) error: %v", password, err)
		}
		if !h.Verify(password, record) {
			t.Fatalf("Verify failed for %q", password)
		}
		if h.Verify(password+"x", record) {
			t.Fatalf("Verify accepted wrong password for %q", password)
		}
	}
}

func TestPasswordHasher_FreshSaltPerCall(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	a, err := h.Hash("SecurePass123!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	b, err := h.Hash("SecurePass123!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct records for repeated hashing")
	}
}

func TestPasswordHasher_MalformedRecord(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	for _, record := range []string{"", "not-a-bcrypt-hash", "$2a$garbage", strings.Repeat("x", 100)} {
		if h.Verify("anything", record) {
			t.Fatalf("Verify accepted malformed record %q", record)
		}
	}
}

func TestNewPasswordHasher_CostOutOfRange(t *testing.T) {
	t.Parallel()

	// Out-of-range costs must not panic later in Hash.
	for _, cost := range []int{-1, 0, 99} {
		h := NewPasswordHasher(cost)
		record, err := h.Hash("SecurePass123!")
		if err != nil {
			t.Fatalf("Hash with fallback cost error: %v", err)
		}
		if !h.Verify("SecurePass123!", record) {
			t.Fatalf("Verify failed with fallback cost")
		}
	}
}
