package promotions

import (
	"github.com/sitecms/sitecms-backend/internal/repo"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"gorm.io/gorm"
)

type Repository = repo.Store[models.Promotion, *models.Promotion]

func NewRepository(db *gorm.DB) *Repository {
	return repo.NewStore[models.Promotion](db, repo.StoreConfig[models.Promotion]{Label: "Promotion"})
}
