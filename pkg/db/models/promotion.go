package models

import "github.com/sitecms/sitecms-backend/pkg/types"

type Promotion struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Heading     types.CleanString `gorm:"column:heading;not null"`
	Description types.CleanString `gorm:"column:description;not null"`
	Image       types.Image       `gorm:"column:image;not null"`
	Expire      *types.Date       `gorm:"column:expire"`
	Timestamps
}

func (Promotion) TableName() string { return "promotions" }
