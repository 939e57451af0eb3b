package services

import (
	"context"
	"fmt"

	"github.com/sitecms/sitecms-backend/internal/attachments"
	"github.com/sitecms/sitecms-backend/pkg/db"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"github.com/sitecms/sitecms-backend/pkg/types"
	"gorm.io/gorm"
)

type serviceRepository interface {
	Create(ctx context.Context, tx *gorm.DB, svc *models.Service) error
	Get(ctx context.Context, tx *gorm.DB, id int64) (*models.Service, error)
	List(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]models.Service, error)
	Update(ctx context.Context, tx *gorm.DB, id int64, patch func(*models.Service) error) (*models.Service, error)
	Delete(ctx context.Context, tx *gorm.DB, id int64) (*models.Service, error)
}

// Service exposes operations on offered services.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]ServiceDTO, error)
	Get(ctx context.Context, id int64) (*ServiceDTO, error)
	Create(ctx context.Context, input CreateInput) (*ServiceDTO, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*ServiceDTO, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo   serviceRepository
	tx     db.TxRunner
	images attachments.Attacher
}

func NewService(repo serviceRepository, tx db.TxRunner, images attachments.Attacher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("service repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if images == nil {
		return nil, fmt.Errorf("image attacher required")
	}
	return &service{repo: repo, tx: tx, images: images}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]ServiceDTO, error) {
	var scopes []func(*gorm.DB) *gorm.DB
	if filter.Featured != nil {
		scopes = append(scopes, FeaturedScope(*filter.Featured))
	}
	rows, err := s.repo.List(ctx, scopes...)
	if err != nil {
		return nil, err
	}
	return FromModels(rows, s.images.PublicURL), nil
}

func (s *service) Get(ctx context.Context, id int64) (*ServiceDTO, error) {
	row, err := s.repo.Get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return FromModel(row, s.images.PublicURL), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ServiceDTO, error) {
	row := &models.Service{
		Heading:     input.Heading,
		Description: input.Description,
		Featured:    input.Featured,
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

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*ServiceDTO, error) {
	var (
		updated  *models.Service
		stored   types.Image
		replaced types.Image
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		updated, err = s.repo.Update(ctx, tx, id, func(row *models.Service) error {
			if input.Heading != nil {
				row.Heading = *input.Heading
			}
			if input.Description != nil {
				row.Description = *input.Description
			}
			if input.Featured != nil {
				row.Featured = *input.Featured
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

// Delete removes the service; its location pairings go with it.
func (s *service) Delete(ctx context.Context, id int64) error {
	var deleted *models.Service
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
