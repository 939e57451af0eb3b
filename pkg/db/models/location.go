package models

import (
	"github.com/sitecms/sitecms-backend/pkg/types"
	"gorm.io/gorm"
)

type Location struct {
	ID                 int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Heading            types.CleanString  `gorm:"column:heading;not null"`
	Address            types.CleanString  `gorm:"column:address;not null"`
	PhonesDescription  types.CleanString  `gorm:"column:phones_description;not null"`
	OperatingHours     types.CleanString  `gorm:"column:operating_hours;not null"`
	Image              types.Image        `gorm:"column:image;not null"`
	GoogleMapsEmbedURL *types.CleanString `gorm:"column:google_maps_embed_url"`
	Timestamps
}

func (Location) TableName() string { return "locations" }

// BeforeDelete drops the location's association rows in the same transaction.
func (l *Location) BeforeDelete(tx *gorm.DB) error {
	return tx.Session(&gorm.Session{NewDB: true}).
		Where("location_id = ?", l.ID).
		Delete(&LocationServiceAssociation{}).Error
}
