package heroes

import (
	"context"
	"fmt"

	"github.com/sitecms/sitecms-backend/internal/attachments"
	"github.com/sitecms/sitecms-backend/pkg/db"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"github.com/sitecms/sitecms-backend/pkg/types"
	"gorm.io/gorm"
)

type heroRepository interface {
	Create(ctx context.Context, tx *gorm.DB, hero *models.Hero) error
	Get(ctx context.Context, tx *gorm.DB, id int64) (*models.Hero, error)
	List(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]models.Hero, error)
	Update(ctx context.Context, tx *gorm.DB, id int64, patch func(*models.Hero) error) (*models.Hero, error)
	Delete(ctx context.Context, tx *gorm.DB, id int64) (*models.Hero, error)
}

// Service exposes hero operations.
type Service interface {
	List(ctx context.Context) ([]HeroDTO, error)
	Get(ctx context.Context, id int64) (*HeroDTO, error)
	Create(ctx context.Context, input CreateInput) (*HeroDTO, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*HeroDTO, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo   heroRepository
	tx     db.TxRunner
	images attachments.Attacher
}

// NewService builds a hero service.
func NewService(repo heroRepository, tx db.TxRunner, images attachments.Attacher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("hero repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if images == nil {
		return nil, fmt.Errorf("image attacher required")
	}
	return &service{repo: repo, tx: tx, images: images}, nil
}

func (s *service) List(ctx context.Context) ([]HeroDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]HeroDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], s.images.PublicURL))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*HeroDTO, error) {
	row, err := s.repo.Get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return FromModel(row, s.images.PublicURL), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*HeroDTO, error) {
	hero := &models.Hero{
		Heading:     input.Heading,
		Description: input.Description,
	}

	var stored types.Image
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		img, err := s.images.Attach(ctx, input.Image)
		if err != nil {
			return err
		}
		stored = img
		hero.Image = img
		return s.repo.Create(ctx, tx, hero)
	})
	if err != nil {
		s.images.Orphaned(ctx, stored)
		return nil, err
	}
	return FromModel(hero, s.images.PublicURL), nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*HeroDTO, error) {
	var (
		updated  *models.Hero
		stored   types.Image
		replaced types.Image
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		updated, err = s.repo.Update(ctx, tx, id, func(row *models.Hero) error {
			if input.Heading != nil {
				row.Heading = *input.Heading
			}
			if input.Description != nil {
				row.Description = *input.Description
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

func (s *service) Delete(ctx context.Context, id int64) error {
	var deleted *models.Hero
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
