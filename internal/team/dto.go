package team

import (
	"time"

	"github.com/sitecms/sitecms-backend/internal/attachments"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"github.com/sitecms/sitecms-backend/pkg/types"
)

// MemberDTO is the API shape of a team member.
type MemberDTO struct {
	ID          int64     `json:"id"`
	Heading     string    `json:"heading"`
	Role        string    `json:"role"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateInput struct {
	Heading     types.CleanString
	Role        types.CleanString
	Description types.CleanString
	Image       attachments.Upload
}

// UpdateInput carries the supplied fields of a partial update; nil means unset.
type UpdateInput struct {
	Heading     *types.CleanString
	Role        *types.CleanString
	Description *types.CleanString
	Image       *attachments.Upload
}

func FromModel(m *models.TeamMember, imageURL func(types.Image) string) *MemberDTO {
	if m == nil {
		return nil
	}
	return &MemberDTO{
		ID:          m.ID,
		Heading:     m.Heading.String(),
		Role:        m.Role.String(),
		Description: m.Description.String(),
		ImageURL:    imageURL(m.Image),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
