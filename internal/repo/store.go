package repo

import (
	"context"
	"fmt"

	"github.com/sitecms/sitecms-backend/pkg/db"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	pkgerrors "github.com/sitecms/sitecms-backend/pkg/errors"
	"gorm.io/gorm"
)

// Record constrains Store to pointer-to-model types with timestamps.
type Record[T any] interface {
	*T
	models.Timestamped
}

// UniqueField names the column whose violation is reported as a conflict.
type UniqueField[T any] struct {
	Name  string
	Value func(*T) string
}

// StoreConfig describes one resource table.
type StoreConfig[T any] struct {
	// Label is the human name used in messages, e.g. "Team member".
	Label  string
	Unique *UniqueField[T]
	Clock  *Clock
}

// Store is the CRUD repository shared by every resource.
type Store[T any, PT Record[T]] struct {
	Base
	label  string
	unique *UniqueField[T]
	clock  *Clock
}

func NewStore[T any, PT Record[T]](conn *gorm.DB, cfg StoreConfig[T]) *Store[T, PT] {
	clock := cfg.Clock
	if clock == nil {
		clock = defaultClock
	}
	return &Store[T, PT]{
		Base:   NewBase(conn),
		label:  cfg.Label,
		unique: cfg.Unique,
		clock:  clock,
	}
}

// Label returns the resource's human name.
func (s *Store[T, PT]) Label() string {
	return s.label
}

// NotFound builds the resource's not-found error.
func (s *Store[T, PT]) NotFound() error {
	return pkgerrors.NotFound(s.label)
}

// Create stamps and inserts record.
func (s *Store[T, PT]) Create(ctx context.Context, tx *gorm.DB, record *T) error {
	PT(record).Stamp(s.clock.Now())
	if err := s.Conn(ctx, tx).Create(record).Error; err != nil {
		return s.translateWrite(err, record, "create")
	}
	return nil
}

// Get loads a row by primary key.
func (s *Store[T, PT]) Get(ctx context.Context, tx *gorm.DB, id int64) (*T, error) {
	return s.GetBy(ctx, tx, "id", id)
}

// GetBy loads a row by an exact column match. column must be a trusted identifier.
func (s *Store[T, PT]) GetBy(ctx context.Context, tx *gorm.DB, column string, value any) (*T, error) {
	var record T
	err := s.Conn(ctx, tx).Where(fmt.Sprintf("%s = ?", column), value).Take(&record).Error
	if err != nil {
		if db.IsNotFound(err) {
			return nil, s.NotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load "+s.label)
	}
	return &record, nil
}

// Exists reports whether a row with id is present.
func (s *Store[T, PT]) Exists(ctx context.Context, tx *gorm.DB, id int64) (bool, error) {
	var count int64
	if err := s.Conn(ctx, tx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count "+s.label)
	}
	return count > 0, nil
}

// List returns every row newest first; ties keep arrival order.
func (s *Store[T, PT]) List(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]T, error) {
	var records []T
	err := s.Conn(ctx, nil).
		Scopes(scopes...).
		Order("created_at DESC").
		Order("id DESC").
		Find(&records).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list "+s.label)
	}
	return records, nil
}

// Update loads the row, applies patch and saves it with a fresh updated_at.
func (s *Store[T, PT]) Update(ctx context.Context, tx *gorm.DB, id int64, patch func(*T) error) (*T, error) {
	return s.UpdateBy(ctx, tx, "id", id, patch)
}

// UpdateBy is Update keyed by another unique column.
func (s *Store[T, PT]) UpdateBy(ctx context.Context, tx *gorm.DB, column string, value any, patch func(*T) error) (*T, error) {
	record, err := s.GetBy(ctx, tx, column, value)
	if err != nil {
		return nil, err
	}
	if patch != nil {
		if err := patch(record); err != nil {
			return nil, err
		}
	}

	PT(record).Touch(s.clock.After(PT(record).LastUpdated()))
	if err := s.Conn(ctx, tx).Save(record).Error; err != nil {
		return nil, s.translateWrite(err, record, "update")
	}
	return record, nil
}

// Delete removes the row by primary key and returns what was removed.
// Model hooks run for the loaded row.
func (s *Store[T, PT]) Delete(ctx context.Context, tx *gorm.DB, id int64) (*T, error) {
	return s.DeleteBy(ctx, tx, "id", id)
}

// DeleteBy removes the row matched by column.
func (s *Store[T, PT]) DeleteBy(ctx context.Context, tx *gorm.DB, column string, value any) (*T, error) {
	record, err := s.GetBy(ctx, tx, column, value)
	if err != nil {
		return nil, err
	}
	if err := s.Conn(ctx, tx).Delete(record).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete "+s.label)
	}
	return record, nil
}

func (s *Store[T, PT]) translateWrite(err error, record *T, op string) error {
	if !db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op+" "+s.label)
	}
	if s.unique == nil {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Data conflict during "+op+".")
	}

	return pkgerrors.Conflict(err, s.label, s.unique.Name, s.unique.Value(record))
}
