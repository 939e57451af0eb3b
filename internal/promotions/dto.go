package promotions

import (
	"time"

	"github.com/sitecms/sitecms-backend/internal/attachments"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"github.com/sitecms/sitecms-backend/pkg/types"
)

// PromotionDTO is the API shape of a promotion. Expire is null when the
// promotion never lapses.
type PromotionDTO struct {
	ID          int64       `json:"id"`
	Heading     string      `json:"heading"`
	Description string      `json:"description"`
	ImageURL    string      `json:"image_url"`
	Expire      *types.Date `json:"expire"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type CreateInput struct {
	Heading     types.CleanString
	Description types.CleanString
	Expire      *types.Date
	Image       attachments.Upload
}

// UpdateInput carries the supplied fields of a partial update. Expire may be
// cleared with an explicit null.
type UpdateInput struct {
	Heading     *types.CleanString
	Description *types.CleanString
	Expire      types.Nullable[types.Date]
	Image       *attachments.Upload
}

func FromModel(m *models.Promotion, imageURL func(types.Image) string) *PromotionDTO {
	if m == nil {
		return nil
	}
	return &PromotionDTO{
		ID:          m.ID,
		Heading:     m.Heading.String(),
		Description: m.Description.String(),
		ImageURL:    imageURL(m.Image),
		Expire:      m.Expire,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromModels(rows []models.Promotion, imageURL func(types.Image) string) []PromotionDTO {
	out := make([]PromotionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], imageURL))
	}
	return out
}
