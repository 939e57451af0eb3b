package otherinfo

import (
	"time"

	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"github.com/sitecms/sitecms-backend/pkg/types"
)

// InfoDTO is the API shape of a named information entry.
type InfoDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Value     *string   `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput is the JSON create body.
type CreateInput struct {
	Name  types.CleanString  `json:"name" validate:"required"`
	Value *types.CleanString `json:"value"`
}

// UpdateInput is the JSON partial update body. An absent field is left as is;
// "value": null clears the value. Name cannot be cleared.
type UpdateInput struct {
	Name  *types.CleanString                `json:"name"`
	Value types.Nullable[types.CleanString] `json:"value"`
}

func FromModel(m *models.OtherInfo) *InfoDTO {
	if m == nil {
		return nil
	}
	dto := &InfoDTO{
		ID:        m.ID,
		Name:      m.Name.String(),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Value != nil {
		v := m.Value.String()
		dto.Value = &v
	}
	return dto
}
