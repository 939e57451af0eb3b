package team

import (
	"github.com/sitecms/sitecms-backend/internal/repo"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists team members; heading is unique.
type Repository = repo.Store[models.TeamMember, *models.TeamMember]

func NewRepository(db *gorm.DB) *Repository {
	return repo.NewStore[models.TeamMember](db, repo.StoreConfig[models.TeamMember]{
		Label: "Team member",
		Unique: &repo.UniqueField[models.TeamMember]{
			Name:  "heading",
			Value: func(m *models.TeamMember) string { return m.Heading.String() },
		},
	})
}
