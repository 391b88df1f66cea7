// Package authz is the ownership authorization guard: a pure check with no
// state and no side effects.
package authz

import "github.com/avoronin/placekeeper/internal/common"

// Authorize allows the operation when the caller is the recorded owner and
// returns common.ErrorForbidden otherwise.
func Authorize(callerID, ownerID string) error {
	if callerID != ownerID {
		return common.ErrorForbidden
	}
	return nil
}
