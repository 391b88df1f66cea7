package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avoronin/placekeeper/internal/filex"
	"github.com/avoronin/placekeeper/internal/logging"
	"github.com/google/uuid"
)

// DiskStore keeps assets in a local directory. References are paths relative
// to the directory root ("uploads/images/<uuid>.<ext>" style), suitable for
// static serving.
type DiskStore struct {
	dir     string
	prefix  string
	maxSize int64
	logger  logging.Logger
}

// NewDiskStore prepares the upload directory. prefix is prepended to every
// returned reference; maxSize caps accepted payloads in bytes.
func NewDiskStore(dir, prefix string, maxSize int64, logger logging.Logger) (*DiskStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("preparing upload dir: %w", err)
	}
	return &DiskStore{
		dir:     abs,
		prefix:  prefix,
		maxSize: maxSize,
		logger:  logger.With("module", "assets_disk"),
	}, nil
}

// Store writes data to a temp file first and renames it into place, so a name
// we report as stored never refers to a partial write.
func (s *DiskStore) Store(ctx context.Context, data []byte, declaredMime string) (string, error) {
	ext, err := checkPayload(data, declaredMime, s.maxSize)
	if err != nil {
		return "", err
	}

	name := uuid.NewString() + "." + ext

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing asset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing asset: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("publishing asset: %w", err)
	}

	return filepath.Join(s.prefix, name), nil
}

// Remove deletes the asset file. A missing file is logged and reported as
// success so deletion remains retryable.
func (s *DiskStore) Remove(ctx context.Context, ref string) error {
	name := filepath.Base(ref)

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn(ctx, "asset already absent", "ref", ref)
			return nil
		}
		return fmt.Errorf("removing asset %s: %w", ref, err)
	}

	return nil
}

var _ Store = (*DiskStore)(nil)
