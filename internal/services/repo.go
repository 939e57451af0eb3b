package services

import (
	"github.com/sitecms/sitecms-backend/internal/repo"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists services; heading is unique.
type Repository = repo.Store[models.Service, *models.Service]

func NewRepository(db *gorm.DB) *Repository {
	return repo.NewStore[models.Service](db, repo.StoreConfig[models.Service]{
		Label: "Service",
		Unique: &repo.UniqueField[models.Service]{
			Name:  "heading",
			Value: func(m *models.Service) string { return m.Heading.String() },
		},
	})
}

// FeaturedScope filters on the featured flag.
func FeaturedScope(featured bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("featured = ?", featured)
	}
}
