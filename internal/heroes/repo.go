package heroes

import (
	"github.com/sitecms/sitecms-backend/internal/repo"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists heroes.
type Repository = repo.Store[models.Hero, *models.Hero]

// NewRepository binds a GORM DB to hero operations.
func NewRepository(db *gorm.DB) *Repository {
	return repo.NewStore[models.Hero](db, repo.StoreConfig[models.Hero]{Label: "Hero"})
}
