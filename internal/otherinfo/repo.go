package otherinfo

import (
	"github.com/sitecms/sitecms-backend/internal/repo"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists information entries keyed by their unique name.
type Repository = repo.Store[models.OtherInfo, *models.OtherInfo]

func NewRepository(db *gorm.DB) *Repository {
	return repo.NewStore[models.OtherInfo](db, repo.StoreConfig[models.OtherInfo]{
		Label: "Information",
		Unique: &repo.UniqueField[models.OtherInfo]{
			Name:  "name",
			Value: func(m *models.OtherInfo) string { return m.Name.String() },
		},
	})
}
