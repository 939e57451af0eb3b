package locations

import (
	"context"

	"github.com/sitecms/sitecms-backend/internal/repo"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	pkgerrors "github.com/sitecms/sitecms-backend/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists locations.
type Repository = repo.Store[models.Location, *models.Location]

func NewRepository(db *gorm.DB) *Repository {
	return repo.NewStore[models.Location](db, repo.StoreConfig[models.Location]{Label: "Location"})
}

// AssociationRepository manages location_service_associations rows.
type AssociationRepository struct {
	repo.Base
	clock *repo.Clock
}

func NewAssociationRepository(db *gorm.DB) *AssociationRepository {
	return &AssociationRepository{Base: repo.NewBase(db), clock: repo.NewClock(nil)}
}

// ServicesFor lists the services paired with a location, newest first.
func (r *AssociationRepository) ServicesFor(ctx context.Context, tx *gorm.DB, locationID int64) ([]models.Service, error) {
	var rows []models.Service
	err := r.Conn(ctx, tx).
		Joins("JOIN location_service_associations lsa ON lsa.service_id = services.id").
		Where("lsa.location_id = ?", locationID).
		Order("services.created_at DESC").
		Order("services.id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list location services")
	}
	return rows, nil
}

// LocationsFor lists the locations offering a service, newest first.
func (r *AssociationRepository) LocationsFor(ctx context.Context, tx *gorm.DB, serviceID int64) ([]models.Location, error) {
	var rows []models.Location
	err := r.Conn(ctx, tx).
		Joins("JOIN location_service_associations lsa ON lsa.location_id = locations.id").
		Where("lsa.service_id = ?", serviceID).
		Order("locations.created_at DESC").
		Order("locations.id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list service locations")
	}
	return rows, nil
}

// ExistingServiceIDs filters ids down to services that exist.
func (r *AssociationRepository) ExistingServiceIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int64
	err := r.Conn(ctx, tx).
		Model(&models.Service{}).
		Where("id IN ?", ids).
		Order("id").
		Pluck("id", &found).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve service ids")
	}
	return found, nil
}

// Add inserts the missing pairs; pairs already present are left untouched.
func (r *AssociationRepository) Add(ctx context.Context, tx *gorm.DB, locationID int64, serviceIDs []int64) error {
	if len(serviceIDs) == 0 {
		return nil
	}
	now := r.clock.Now()
	rows := make([]models.LocationServiceAssociation, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		row := models.LocationServiceAssociation{LocationID: locationID, ServiceID: id}
		row.Stamp(now)
		rows = append(rows, row)
	}
	err := r.Conn(ctx, tx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add location services")
	}
	return nil
}

// Remove deletes exactly one pair and reports whether it existed.
func (r *AssociationRepository) Remove(ctx context.Context, tx *gorm.DB, locationID, serviceID int64) (bool, error) {
	res := r.Conn(ctx, tx).
		Where("location_id = ? AND service_id = ?", locationID, serviceID).
		Delete(&models.LocationServiceAssociation{})
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "remove location service")
	}
	return res.RowsAffected > 0, nil
}
