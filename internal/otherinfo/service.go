package otherinfo

import (
	"context"
	"fmt"
	"strings"

	"github.com/sitecms/sitecms-backend/pkg/db"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	pkgerrors "github.com/sitecms/sitecms-backend/pkg/errors"
	"github.com/sitecms/sitecms-backend/pkg/logger"
	"github.com/sitecms/sitecms-backend/pkg/types"
	"gorm.io/gorm"
)

const nameColumn = "name"

// DefaultEntries are created empty at startup when missing.
var DefaultEntries = []string{"tiktok"}

type infoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, info *models.OtherInfo) error
	GetBy(ctx context.Context, tx *gorm.DB, column string, value any) (*models.OtherInfo, error)
	List(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]models.OtherInfo, error)
	UpdateBy(ctx context.Context, tx *gorm.DB, column string, value any, patch func(*models.OtherInfo) error) (*models.OtherInfo, error)
	DeleteBy(ctx context.Context, tx *gorm.DB, column string, value any) (*models.OtherInfo, error)
}

// Service exposes information entries addressed by name.
type Service interface {
	List(ctx context.Context) ([]InfoDTO, error)
	Get(ctx context.Context, name string) (*InfoDTO, error)
	Create(ctx context.Context, input CreateInput) (*InfoDTO, error)
	Update(ctx context.Context, name string, input UpdateInput) (*InfoDTO, error)
	Delete(ctx context.Context, name string) error
	Ensure(ctx context.Context, names ...string) error
}

type service struct {
	repo infoRepository
	tx   db.TxRunner
	logg *logger.Logger
}

func NewService(repo infoRepository, tx db.TxRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("information repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]InfoDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]InfoDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, name string) (*InfoDTO, error) {
	row, err := s.repo.GetBy(ctx, nil, nameColumn, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	return FromModel(row), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*InfoDTO, error) {
	row := &models.OtherInfo{Name: input.Name, Value: input.Value}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, row)
	})
	if err != nil {
		return nil, err
	}
	return FromModel(row), nil
}

// Update applies input to the entry called name. Renaming onto an existing
// name is a conflict.
func (s *service) Update(ctx context.Context, name string, input UpdateInput) (*InfoDTO, error) {
	var updated *models.OtherInfo
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		updated, err = s.repo.UpdateBy(ctx, tx, nameColumn, strings.TrimSpace(name), func(row *models.OtherInfo) error {
			if input.Name != nil {
				row.Name = *input.Name
			}
			if input.Value.Set {
				row.Value = input.Value.Value
			}
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, name string) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.DeleteBy(ctx, tx, nameColumn, strings.TrimSpace(name))
		return err
	})
}

// Ensure creates an empty entry for every name that does not exist yet.
func (s *service) Ensure(ctx context.Context, names ...string) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		for _, raw := range names {
			name, err := types.NewCleanString(raw)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "information name")
			}
			_, err = s.repo.GetBy(ctx, tx, nameColumn, name.String())
			if err == nil {
				continue
			}
			if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return err
			}
			if err := s.repo.Create(ctx, tx, &models.OtherInfo{Name: name}); err != nil {
				return err
			}
			if s.logg != nil {
				s.logg.Info(s.logg.WithField(ctx, "name", name.String()), "other_info.seeded")
			}
		}
		return nil
	})
}
