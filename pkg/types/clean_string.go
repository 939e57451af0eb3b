package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyString is returned when a value is empty after trimming.
var ErrEmptyString = errors.New("value cannot be empty")

// CleanString is a whitespace-trimmed, non-empty string.
type CleanString string

// NewCleanString trims s and rejects the empty result.
func NewCleanString(s string) (CleanString, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", ErrEmptyString
	}
	return CleanString(trimmed), nil
}

func (c CleanString) String() string {
	return string(c)
}

// UnmarshalJSON trims and validates the decoded string.
func (c *CleanString) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	clean, err := NewCleanString(raw)
	if err != nil {
		return err
	}
	*c = clean
	return nil
}

// Value normalises again on write so rows never hold padded or empty text.
func (c CleanString) Value() (driver.Value, error) {
	clean, err := NewCleanString(string(c))
	if err != nil {
		return nil, err
	}
	return string(clean), nil
}

func (c *CleanString) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*c = ""
	case string:
		*c = CleanString(v)
	case []byte:
		*c = CleanString(v)
	default:
		return fmt.Errorf("clean string: unsupported scan type %T", value)
	}
	return nil
}
