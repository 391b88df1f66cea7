package assets

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avoronin/placekeeper/internal/common"
	"github.com/avoronin/placekeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

// pngBytes carries the PNG magic so content sniffing accepts it.
var pngBytes = []byte("\x89PNG\r\n\x1a\n-----payload-----")

// jpegBytes carries the JPEG magic.
var jpegBytes = []byte("\xff\xd8\xff\xe0-----payload-----")

func newDiskStore(t *testing.T, maxSize int64) (*DiskStore, string) {
	t.Helper()
	dir := t.TempDir()
	logger := logging.NewSlogLogger(slog.New(slog.DiscardHandler))
	s, err := NewDiskStore(dir, "uploads/images", maxSize, logger)
	require.NoError(t, err)
	return s, dir
}

func TestDiskStore_StoreAndRemove(t *testing.T) {
	s, dir := newDiskStore(t, 500000)
	ctx := context.Background()

	ref, err := s.Store(ctx, pngBytes, "image/png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "uploads/images/"), "ref: %s", ref)
	require.True(t, strings.HasSuffix(ref, ".png"), "ref: %s", ref)

	onDisk := filepath.Join(dir, filepath.Base(ref))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	require.Equal(t, pngBytes, data)

	require.NoError(t, s.Remove(ctx, ref))
	_, err = os.Stat(onDisk)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiskStore_Remove_MissingIsNotFatal(t *testing.T) {
	s, _ := newDiskStore(t, 500000)

	err := s.Remove(context.Background(), "uploads/images/ghost.png")
	require.NoError(t, err, "removing an absent asset must not fail")
}

func TestDiskStore_RejectsUnsupportedMime(t *testing.T) {
	s, dir := newDiskStore(t, 500000)

	_, err := s.Store(context.Background(), []byte("GIF89a..."), "image/gif")
	require.ErrorIs(t, err, common.ErrorAssetRejected)

	requireNoStrayFiles(t, dir)
}

func TestDiskStore_RejectsMismatchedContent(t *testing.T) {
	s, dir := newDiskStore(t, 500000)

	// declared png, but the bytes are not an image
	_, err := s.Store(context.Background(), []byte("plain text, not an image"), "image/png")
	require.ErrorIs(t, err, common.ErrorAssetRejected)

	requireNoStrayFiles(t, dir)
}

func TestDiskStore_RejectsOversizedPayload(t *testing.T) {
	s, dir := newDiskStore(t, 16)

	_, err := s.Store(context.Background(), jpegBytes, "image/jpeg")
	require.ErrorIs(t, err, common.ErrorAssetRejected)

	requireNoStrayFiles(t, dir)
}

// requireNoStrayFiles asserts rejection happened before any write.
func requireNoStrayFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "no file may be written for a rejected asset")
}
