package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if !CheckPassword("secret1", digest) {
		t.Fatalf("expected matching password to verify")
	}
	if CheckPassword("secret2", digest) {
		t.Fatalf("expected mismatched password to fail")
	}
}
