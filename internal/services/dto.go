package services

import (
	"time"

	"github.com/sitecms/sitecms-backend/internal/attachments"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"github.com/sitecms/sitecms-backend/pkg/types"
)

// ServiceDTO is the API shape of an offered service.
type ServiceDTO struct {
	ID          int64     `json:"id"`
	Heading     string    `json:"heading"`
	Description string    `json:"description"`
	Featured    bool      `json:"featured"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateInput struct {
	Heading     types.CleanString
	Description types.CleanString
	Featured    bool
	Image       attachments.Upload
}

// UpdateInput carries the supplied fields of a partial update; nil means unset.
type UpdateInput struct {
	Heading     *types.CleanString
	Description *types.CleanString
	Featured    *bool
	Image       *attachments.Upload
}

// ListFilter narrows List. A nil Featured returns every service.
type ListFilter struct {
	Featured *bool
}

func FromModel(m *models.Service, imageURL func(types.Image) string) *ServiceDTO {
	if m == nil {
		return nil
	}
	return &ServiceDTO{
		ID:          m.ID,
		Heading:     m.Heading.String(),
		Description: m.Description.String(),
		Featured:    m.Featured,
		ImageURL:    imageURL(m.Image),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromModels maps a slice of rows preserving order.
func FromModels(rows []models.Service, imageURL func(types.Image) string) []ServiceDTO {
	out := make([]ServiceDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], imageURL))
	}
	return out
}
