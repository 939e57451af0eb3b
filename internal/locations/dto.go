package locations

import (
	"time"

	"github.com/sitecms/sitecms-backend/internal/attachments"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"github.com/sitecms/sitecms-backend/pkg/types"
)

// LocationDTO is the API shape of a location.
type LocationDTO struct {
	ID                 int64     `json:"id"`
	Heading            string    `json:"heading"`
	Address            string    `json:"address"`
	PhonesDescription  string    `json:"phones_description"`
	OperatingHours     string    `json:"operating_hours"`
	GoogleMapsEmbedURL *string   `json:"google_maps_embed_url"`
	ImageURL           string    `json:"image_url"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type CreateInput struct {
	Heading            types.CleanString
	Address            types.CleanString
	PhonesDescription  types.CleanString
	OperatingHours     types.CleanString
	GoogleMapsEmbedURL *types.CleanString
	Image              attachments.Upload
}

// UpdateInput carries the supplied fields of a partial update. Nil pointers
// are unset; GoogleMapsEmbedURL can also be cleared with an explicit null.
type UpdateInput struct {
	Heading            *types.CleanString
	Address            *types.CleanString
	PhonesDescription  *types.CleanString
	OperatingHours     *types.CleanString
	GoogleMapsEmbedURL types.Nullable[types.CleanString]
	Image              *attachments.Upload
}

func FromModel(m *models.Location, imageURL func(types.Image) string) *LocationDTO {
	if m == nil {
		return nil
	}
	dto := &LocationDTO{
		ID:                m.ID,
		Heading:           m.Heading.String(),
		Address:           m.Address.String(),
		PhonesDescription: m.PhonesDescription.String(),
		OperatingHours:    m.OperatingHours.String(),
		ImageURL:          imageURL(m.Image),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.GoogleMapsEmbedURL != nil {
		embed := m.GoogleMapsEmbedURL.String()
		dto.GoogleMapsEmbedURL = &embed
	}
	return dto
}

func FromModels(rows []models.Location, imageURL func(types.Image) string) []LocationDTO {
	out := make([]LocationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], imageURL))
	}
	return out
}
