package models

// All lists every model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&Hero{},
		&TeamMember{},
		&Location{},
		&Service{},
		&LocationServiceAssociation{},
		&Promotion{},
		&Offer{},
		&OtherInfo{},
	}
}
