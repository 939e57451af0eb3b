package models

import (
	"github.com/sitecms/sitecms-backend/pkg/types"
	"gorm.io/gorm"
)

type Service struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Heading     types.CleanString `gorm:"column:heading;not null;uniqueIndex:services_heading_key"`
	Description types.CleanString `gorm:"column:description;not null"`
	Image       types.Image       `gorm:"column:image;not null"`
	Featured    bool              `gorm:"column:featured;not null;default:false"`
	Timestamps
}

func (Service) TableName() string { return "services" }

// BeforeDelete drops the service's association rows in the same transaction.
func (s *Service) BeforeDelete(tx *gorm.DB) error {
	return tx.Session(&gorm.Session{NewDB: true}).
		Where("service_id = ?", s.ID).
		Delete(&LocationServiceAssociation{}).Error
}
