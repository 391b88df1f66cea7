// Package assets persists and removes binary image assets bound to users and
// places. Assets live outside the document store, so callers pair Store with
// compensating Remove calls when a surrounding transaction fails.
package assets

import (
	"context"
	"fmt"

	"github.com/avoronin/placekeeper/internal/common"
	"github.com/gabriel-vasile/mimetype"
)

// Store is the asset store abstraction. Store writes the payload under a
// newly generated collision-resistant name and returns its reference; a
// reference reported as stored is always fully written. Remove tolerates
// already-missing assets (logged by the implementation, nil returned), so
// deletion flows are safe to retry.
type Store interface {
	Store(ctx context.Context, data []byte, declaredMime string) (string, error)
	Remove(ctx context.Context, ref string) error
}

// extensions maps accepted image mime types to file extensions,
// mirroring what clients are allowed to upload.
var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// checkPayload validates size and mime type before any write happens.
// The declared type must be in the allowlist and must agree with the sniffed
// content type. Returns the file extension to store under.
func checkPayload(data []byte, declaredMime string, maxSize int64) (string, error) {
	if int64(len(data)) > maxSize {
		return "", fmt.Errorf("size %d exceeds limit %d: %w", len(data), maxSize, common.ErrorAssetRejected)
	}

	ext, ok := extensions[declaredMime]
	if !ok {
		return "", fmt.Errorf("mime type %q: %w", declaredMime, common.ErrorAssetRejected)
	}

	detected := mimetype.Detect(data)
	if !detected.Is("image/png") && !detected.Is("image/jpeg") {
		return "", fmt.Errorf("content detected as %q: %w", detected.String(), common.ErrorAssetRejected)
	}

	return ext, nil
}
