package offers

import (
	"github.com/sitecms/sitecms-backend/internal/repo"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"gorm.io/gorm"
)

type Repository = repo.Store[models.Offer, *models.Offer]

func NewRepository(db *gorm.DB) *Repository {
	return repo.NewStore[models.Offer](db, repo.StoreConfig[models.Offer]{Label: "Offer"})
}
