package locations

import (
	"context"
	"fmt"

	"github.com/sitecms/sitecms-backend/internal/attachments"
	"github.com/sitecms/sitecms-backend/internal/services"
	"github.com/sitecms/sitecms-backend/pkg/db"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	pkgerrors "github.com/sitecms/sitecms-backend/pkg/errors"
	"github.com/sitecms/sitecms-backend/pkg/types"
	"gorm.io/gorm"
)

type locationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, location *models.Location) error
	Get(ctx context.Context, tx *gorm.DB, id int64) (*models.Location, error)
	List(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]models.Location, error)
	Update(ctx context.Context, tx *gorm.DB, id int64, patch func(*models.Location) error) (*models.Location, error)
	Delete(ctx context.Context, tx *gorm.DB, id int64) (*models.Location, error)
}

type serviceLookup interface {
	Get(ctx context.Context, tx *gorm.DB, id int64) (*models.Service, error)
}

type associationRepository interface {
	ServicesFor(ctx context.Context, tx *gorm.DB, locationID int64) ([]models.Service, error)
	LocationsFor(ctx context.Context, tx *gorm.DB, serviceID int64) ([]models.Location, error)
	ExistingServiceIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]int64, error)
	Add(ctx context.Context, tx *gorm.DB, locationID int64, serviceIDs []int64) error
	Remove(ctx context.Context, tx *gorm.DB, locationID, serviceID int64) (bool, error)
}

// Service exposes location operations and the location/service pairing.
type Service interface {
	List(ctx context.Context) ([]LocationDTO, error)
	Get(ctx context.Context, id int64) (*LocationDTO, error)
	Create(ctx context.Context, input CreateInput) (*LocationDTO, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*LocationDTO, error)
	Delete(ctx context.Context, id int64) error

	ListServices(ctx context.Context, locationID int64) ([]services.ServiceDTO, error)
	AddServices(ctx context.Context, locationID int64, serviceIDs []int64) ([]services.ServiceDTO, error)
	RemoveService(ctx context.Context, locationID, serviceID int64) error
	ListForService(ctx context.Context, serviceID int64) ([]LocationDTO, error)
}

type service struct {
	repo     locationRepository
	services serviceLookup
	assoc    associationRepository
	tx       db.TxRunner
	images   attachments.Attacher
}

func NewService(repo locationRepository, svcLookup serviceLookup, assoc associationRepository, tx db.TxRunner, images attachments.Attacher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	if svcLookup == nil {
		return nil, fmt.Errorf("service repository required")
	}
	if assoc == nil {
		return nil, fmt.Errorf("association repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if images == nil {
		return nil, fmt.Errorf("image attacher required")
	}
	return &service{repo: repo, services: svcLookup, assoc: assoc, tx: tx, images: images}, nil
}

func (s *service) List(ctx context.Context) ([]LocationDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return FromModels(rows, s.images.PublicURL), nil
}

func (s *service) Get(ctx context.Context, id int64) (*LocationDTO, error) {
	row, err := s.repo.Get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return FromModel(row, s.images.PublicURL), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*LocationDTO, error) {
	row := &models.Location{
		Heading:            input.Heading,
		Address:            input.Address,
		PhonesDescription:  input.PhonesDescription,
		OperatingHours:     input.OperatingHours,
		GoogleMapsEmbedURL: input.GoogleMapsEmbedURL,
	}

	var stored types.Image
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		img, err := s.images.Attach(ctx, input.Image)
		if err != nil {
			return err
		}
		stored = img
		row.Image = img
		return s.repo.Create(ctx, tx, row)
	})
	if err != nil {
		s.images.Orphaned(ctx, stored)
		return nil, err
	}
	return FromModel(row, s.images.PublicURL), nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*LocationDTO, error) {
	var (
		updated  *models.Location
		stored   types.Image
		replaced types.Image
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		updated, err = s.repo.Update(ctx, tx, id, func(row *models.Location) error {
			if input.Heading != nil {
				row.Heading = *input.Heading
			}
			if input.Address != nil {
				row.Address = *input.Address
			}
			if input.PhonesDescription != nil {
				row.PhonesDescription = *input.PhonesDescription
			}
			if input.OperatingHours != nil {
				row.OperatingHours = *input.OperatingHours
			}
			if input.GoogleMapsEmbedURL.Set {
				row.GoogleMapsEmbedURL = input.GoogleMapsEmbedURL.Value
			}
			if input.Image != nil {
				img, err := s.images.Attach(ctx, *input.Image)
				if err != nil {
					return err
				}
				stored = img
				replaced, row.Image = row.Image, img
			}
			return nil
		})
		return err
	})
	if err != nil {
		s.images.Orphaned(ctx, stored)
		return nil, err
	}
	s.images.Orphaned(ctx, replaced)
	return FromModel(updated, s.images.PublicURL), nil
}

// Delete removes the location and its service pairings.
func (s *service) Delete(ctx context.Context, id int64) error {
	var deleted *models.Location
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		deleted, err = s.repo.Delete(ctx, tx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.images.Orphaned(ctx, deleted.Image)
	return nil
}

func (s *service) ListServices(ctx context.Context, locationID int64) ([]services.ServiceDTO, error) {
	var rows []models.Service
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.Get(ctx, tx, locationID); err != nil {
			return err
		}
		var err error
		rows, err = s.assoc.ServicesFor(ctx, tx, locationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return services.FromModels(rows, s.images.PublicURL), nil
}

// AddServices merges serviceIDs into the location's pairings. Unknown ids are
// skipped; existing pairings stay. The full resulting set is returned.
func (s *service) AddServices(ctx context.Context, locationID int64, serviceIDs []int64) ([]services.ServiceDTO, error) {
	var rows []models.Service
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.Get(ctx, tx, locationID); err != nil {
			return err
		}
		known, err := s.assoc.ExistingServiceIDs(ctx, tx, dedupe(serviceIDs))
		if err != nil {
			return err
		}
		if err := s.assoc.Add(ctx, tx, locationID, known); err != nil {
			return err
		}
		rows, err = s.assoc.ServicesFor(ctx, tx, locationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return services.FromModels(rows, s.images.PublicURL), nil
}

func (s *service) RemoveService(ctx context.Context, locationID, serviceID int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.Get(ctx, tx, locationID); err != nil {
			return err
		}
		if _, err := s.services.Get(ctx, tx, serviceID); err != nil {
			return err
		}
		removed, err := s.assoc.Remove(ctx, tx, locationID, serviceID)
		if err != nil {
			return err
		}
		if !removed {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Service is not offered at this location")
		}
		return nil
	})
}

func (s *service) ListForService(ctx context.Context, serviceID int64) ([]LocationDTO, error) {
	var rows []models.Location
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.services.Get(ctx, tx, serviceID); err != nil {
			return err
		}
		var err error
		rows, err = s.assoc.LocationsFor(ctx, tx, serviceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return FromModels(rows, s.images.PublicURL), nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
