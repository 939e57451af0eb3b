package models

// LocationServiceAssociation is the explicit join row between a location and
// a service. The composite primary key keeps each pair unique; both sides are
// foreign keys that cascade on delete.
type LocationServiceAssociation struct {
	LocationID int64 `gorm:"column:location_id;primaryKey;autoIncrement:false"`
	ServiceID  int64 `gorm:"column:service_id;primaryKey;autoIncrement:false;index:location_service_associations_service_id_idx"`
	Timestamps

	Location *Location `gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE"`
	Service  *Service  `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
}

func (LocationServiceAssociation) TableName() string { return "location_service_associations" }
