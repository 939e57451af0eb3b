package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by repositories that talk to gorm directly.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// Conn returns tx when one is open, else the shared handle, bound to ctx.
func (b Base) Conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	conn := b.db
	if tx != nil {
		conn = tx
	}
	if ctx == nil {
		return conn
	}
	return conn.WithContext(ctx)
}
