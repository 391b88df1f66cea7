package authz

import (
	"errors"
	"testing"

	"github.com/avoronin/placekeeper/internal/common"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	if err := Authorize("u1", "u1"); err != nil {
		t.Fatalf("owner must be allowed, got %v", err)
	}

	err := Authorize("u1", "u2")
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("non-owner must be denied with ErrorForbidden, got %v", err)
	}

	// identity comparison is exact, not case-folded
	if err := Authorize("U1", "u1"); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("expected ErrorForbidden for case-mismatched ids, got %v", err)
	}
}
