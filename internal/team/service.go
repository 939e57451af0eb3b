package team

import (
	"context"
	"fmt"

	"github.com/sitecms/sitecms-backend/internal/attachments"
	"github.com/sitecms/sitecms-backend/pkg/db"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"github.com/sitecms/sitecms-backend/pkg/types"
	"gorm.io/gorm"
)

type memberRepository interface {
	Create(ctx context.Context, tx *gorm.DB, member *models.TeamMember) error
	Get(ctx context.Context, tx *gorm.DB, id int64) (*models.TeamMember, error)
	List(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]models.TeamMember, error)
	Update(ctx context.Context, tx *gorm.DB, id int64, patch func(*models.TeamMember) error) (*models.TeamMember, error)
	Delete(ctx context.Context, tx *gorm.DB, id int64) (*models.TeamMember, error)
}

// Service exposes team member operations.
type Service interface {
	List(ctx context.Context) ([]MemberDTO, error)
	Get(ctx context.Context, id int64) (*MemberDTO, error)
	Create(ctx context.Context, input CreateInput) (*MemberDTO, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*MemberDTO, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo   memberRepository
	tx     db.TxRunner
	images attachments.Attacher
}

func NewService(repo memberRepository, tx db.TxRunner, images attachments.Attacher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("team member repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if images == nil {
		return nil, fmt.Errorf("image attacher required")
	}
	return &service{repo: repo, tx: tx, images: images}, nil
}

func (s *service) List(ctx context.Context) ([]MemberDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MemberDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], s.images.PublicURL))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*MemberDTO, error) {
	row, err := s.repo.Get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return FromModel(row, s.images.PublicURL), nil
}

// Create stores the image and inserts the member in one transaction. A taken
// heading surfaces as a conflict and nothing is committed.
func (s *service) Create(ctx context.Context, input CreateInput) (*MemberDTO, error) {
	member := &models.TeamMember{
		Heading:     input.Heading,
		Role:        input.Role,
		Description: input.Description,
	}

	var stored types.Image
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		img, err := s.images.Attach(ctx, input.Image)
		if err != nil {
			return err
		}
		stored = img
		member.Image = img
		return s.repo.Create(ctx, tx, member)
	})
	if err != nil {
		s.images.Orphaned(ctx, stored)
		return nil, err
	}
	return FromModel(member, s.images.PublicURL), nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*MemberDTO, error) {
	var (
		updated  *models.TeamMember
		stored   types.Image
		replaced types.Image
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		updated, err = s.repo.Update(ctx, tx, id, func(row *models.TeamMember) error {
			if input.Heading != nil {
				row.Heading = *input.Heading
			}
			if input.Role != nil {
				row.Role = *input.Role
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
	var deleted *models.TeamMember
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
