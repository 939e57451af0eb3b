package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Image references an uploaded file held in object storage. The bytes behind
// FileID are never rewritten; replacing an image swaps the reference.
type Image struct {
	FileID      string    `json:"file_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// IsZero reports whether no file has been attached.
func (i Image) IsZero() bool {
	return i.FileID == ""
}

// Value marshals the reference into a JSON document.
func (i Image) Value() (driver.Value, error) {
	buf, err := json.Marshal(i)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes the JSON document.
func (i *Image) Scan(value interface{}) error {
	if value == nil {
		*i = Image{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("image: unsupported scan type %T", value)
	}

	var decoded Image
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*i = decoded
	return nil
}

// GormDBDataType stores the reference as jsonb on Postgres and text elsewhere.
func (Image) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "TEXT"
}
