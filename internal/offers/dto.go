package offers

import (
	"time"

	"github.com/sitecms/sitecms-backend/internal/attachments"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"github.com/sitecms/sitecms-backend/pkg/types"
)

type OfferDTO struct {
	ID          int64     `json:"id"`
	Heading     string    `json:"heading"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateInput struct {
	Heading     types.CleanString
	Description types.CleanString
	Image       attachments.Upload
}

type UpdateInput struct {
	Heading     *types.CleanString
	Description *types.CleanString
	Image       *attachments.Upload
}

func FromModel(m *models.Offer, imageURL func(types.Image) string) *OfferDTO {
	if m == nil {
		return nil
	}
	return &OfferDTO{
		ID:          m.ID,
		Heading:     m.Heading.String(),
		Description: m.Description.String(),
		ImageURL:    imageURL(m.Image),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
