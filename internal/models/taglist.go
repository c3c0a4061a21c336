package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// TagList stores an ordered list of tag strings in a single text column,
// joined with commas. Tag filtering is a substring match against this
// column, so a filter can match across a longer tag; see the article
// repository for the documented trade-off.
type TagList []string

// Value implements driver.Valuer.
func (t TagList) Value() (driver.Value, error) {
	return strings.Join(t, ","), nil
}

// Scan implements sql.Scanner.
func (t *TagList) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*t = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported tag list column type %T", value)
	}

	if raw == "" {
		*t = nil
		return nil
	}
	*t = strings.Split(raw, ",")
	return nil
}

// GormDataType tells gorm which column type to migrate to.
func (TagList) GormDataType() string {
	return "text"
}
