package models

import "github.com/sitecms/sitecms-backend/pkg/types"

// OtherInfo is a named key/value row (social handles, phone numbers...).
type OtherInfo struct {
	ID    int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Name  types.CleanString  `gorm:"column:name;not null;uniqueIndex:other_info_name_key"`
	Value *types.CleanString `gorm:"column:value"`
	Timestamps
}

func (OtherInfo) TableName() string { return "other_info" }
