package models

import "time"

// Timestamps is embedded by every persisted entity. GORM's own time tracking
// is switched off; the repository clock stamps rows explicitly.
type Timestamps struct {
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
}

// Timestamped is satisfied by any model embedding Timestamps.
type Timestamped interface {
	Stamp(now time.Time)
	Touch(now time.Time)
	LastUpdated() time.Time
}

// Stamp sets both timestamps for a new row.
func (t *Timestamps) Stamp(now time.Time) {
	t.CreatedAt = now
	t.UpdatedAt = now
}

// Touch refreshes updated_at.
func (t *Timestamps) Touch(now time.Time) {
	t.UpdatedAt = now
}

func (t *Timestamps) LastUpdated() time.Time {
	return t.UpdatedAt
}
