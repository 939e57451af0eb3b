package models

import "github.com/sitecms/sitecms-backend/pkg/types"

type TeamMember struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Heading     types.CleanString `gorm:"column:heading;not null;uniqueIndex:team_members_heading_key"`
	Role        types.CleanString `gorm:"column:role;not null"`
	Description types.CleanString `gorm:"column:description;not null"`
	Image       types.Image       `gorm:"column:image;not null"`
	Timestamps
}

func (TeamMember) TableName() string { return "team_members" }
