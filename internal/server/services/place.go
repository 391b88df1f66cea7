package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avoronin/placekeeper/internal/common"
	"github.com/avoronin/placekeeper/internal/dbx"
	"github.com/avoronin/placekeeper/internal/logging"
	"github.com/avoronin/placekeeper/internal/server/assets"
	"github.com/avoronin/placekeeper/internal/server/authz"
	"github.com/avoronin/placekeeper/internal/server/geo"
	"github.com/avoronin/placekeeper/internal/server/models"
	"github.com/avoronin/placekeeper/internal/server/repositories/repomanager"
)

// PlaceService is the place lifecycle manager. It owns the transaction
// boundary around the paired writes (place row + owner's place_ids) and the
// compensating asset cleanup when those writes fail.
//
// The asset store sits outside the document transaction on purpose:
// filesystem and object writes cannot join it. Create therefore stores the
// image first and deletes it again if the transaction aborts; Delete removes
// the image only after the transaction commits, best-effort.
type PlaceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	assets      assets.Store
	geo         geo.Resolver
	logger      logging.Logger
}

func NewPlaceService(db *sql.DB, m repomanager.RepositoryManager, store assets.Store, resolver geo.Resolver, logger logging.Logger) *PlaceService {
	return &PlaceService{
		db:          db,
		repomanager: m,
		assets:      store,
		geo:         resolver,
		logger:      logger.With("module", "place_service"),
	}
}

// Create geocodes the address, stores the image, then inserts the place and
// links it to its owner in one transaction. A place is never observable
// without the owner's index entry, or vice versa.
func (s *PlaceService) Create(ctx context.Context, callerID, title, description, address string, image []byte, imageMime string) (*models.Place, error) {
	coords, err := s.geo.Resolve(ctx, address)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("error resolving address: %w", err)
	}

	imagePath, err := s.assets.Store(ctx, image, imageMime)
	if err != nil {
		return nil, err
	}

	place := &models.Place{
		Title:       title,
		Description: description,
		Address:     address,
		Location:    coords,
		ImagePath:   imagePath,
		OwnerID:     callerID,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).GetByID(ctx, callerID); err != nil {
			return err
		}
		if _, err := s.repomanager.Places(tx).Create(ctx, place); err != nil {
			return err
		}
		return s.repomanager.Ownership(tx).Link(ctx, callerID, place.ID)
	})
	if err != nil {
		s.removeAsset(ctx, imagePath)
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating place: %w", err)
	}

	return place, nil
}

// Update changes title and description. Only the recorded owner may do this;
// the check runs before any mutation. Owner never changes, so no
// cross-collection transaction is needed here.
func (s *PlaceService) Update(ctx context.Context, callerID, placeID, title, description string) (*models.Place, error) {
	repo := s.repomanager.Places(s.db)

	place, err := repo.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading place: %w", err)
	}

	if err := authz.Authorize(callerID, place.OwnerID); err != nil {
		return nil, err
	}

	place.Title = title
	place.Description = description

	updated, err := repo.Update(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("error updating place: %w", err)
	}

	return updated, nil
}

// Delete removes the place row and the owner's index entry in one
// transaction, then removes the image. Asset removal failure after a
// committed delete is logged, not surfaced: the authoritative records are
// already consistent.
func (s *PlaceService) Delete(ctx context.Context, callerID, placeID string) error {
	place, err := s.repomanager.Places(s.db).GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorUnavailable) {
			return err
		}
		return fmt.Errorf("error loading place: %w", err)
	}

	if err := authz.Authorize(callerID, place.OwnerID); err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Places(tx).Delete(ctx, placeID); err != nil {
			return err
		}
		return s.repomanager.Ownership(tx).Unlink(ctx, place.OwnerID, placeID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorUnavailable) {
			return err
		}
		return fmt.Errorf("error deleting place: %w", err)
	}

	s.removeAsset(ctx, place.ImagePath)

	return nil
}

// Get returns a single place by id.
func (s *PlaceService) Get(ctx context.Context, placeID string) (*models.Place, error) {
	place, err := s.repomanager.Places(s.db).GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading place: %w", err)
	}
	return place, nil
}

// GetByOwner lists an owner's places. An owner with zero places reports
// common.ErrorNotFound: listing endpoints here treat emptiness as absence.
func (s *PlaceService) GetByOwner(ctx context.Context, ownerID string) ([]*models.Place, error) {
	list, err := s.repomanager.Places(s.db).GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("error listing places: %w", err)
	}
	if len(list) == 0 {
		return nil, common.ErrorNotFound
	}
	return list, nil
}

func (s *PlaceService) removeAsset(ctx context.Context, ref string) {
	if err := s.assets.Remove(ctx, ref); err != nil {
		s.logger.Error(ctx, "failed to remove place asset", "ref", ref, "error", err)
	}
}
