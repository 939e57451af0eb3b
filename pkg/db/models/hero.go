package models

import "github.com/sitecms/sitecms-backend/pkg/types"

// Hero is a banner block on the landing page.
type Hero struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Heading     types.CleanString `gorm:"column:heading;not null"`
	Description types.CleanString `gorm:"column:description;not null"`
	Image       types.Image       `gorm:"column:image;not null"`
	Timestamps
}

func (Hero) TableName() string { return "heros" }
