package heroes

import (
	"time"

	"github.com/sitecms/sitecms-backend/internal/attachments"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"github.com/sitecms/sitecms-backend/pkg/types"
)

// HeroDTO is the API shape of a hero.
type HeroDTO struct {
	ID          int64     `json:"id"`
	Heading     string    `json:"heading"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateInput carries a validated create request.
type CreateInput struct {
	Heading     types.CleanString
	Description types.CleanString
	Image       attachments.Upload
}

// UpdateInput carries the supplied fields of a partial update; nil means unset.
type UpdateInput struct {
	Heading     *types.CleanString
	Description *types.CleanString
	Image       *attachments.Upload
}

// FromModel maps a hero row, expanding its image to a public URL.
func FromModel(m *models.Hero, imageURL func(types.Image) string) *HeroDTO {
	if m == nil {
		return nil
	}
	return &HeroDTO{
		ID:          m.ID,
		Heading:     m.Heading.String(),
		Description: m.Description.String(),
		ImageURL:    imageURL(m.Image),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
