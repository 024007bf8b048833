package domain

import (
	"database/sql/driver"
	"encoding/json"
)

// Tags is an ordered list of strings persisted as a JSON array column.
// Order and duplicates are preserved.
type Tags []string

// NewTags copies in, never returning nil
func NewTags(in []string) Tags {
	out := make(Tags, len(in))
	copy(out, in)
	return out
}

// GormDataType gorm common data type
func (Tags) GormDataType() string {
	return "json"
}

// Value encodes the tags as a JSON string. MySQL rejects JSON values sent as binary, so this is not []byte.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan decodes a stored JSON array. NULL, malformed JSON, or anything that is not an
// array of strings becomes an empty list so a corrupt row stays readable.
func (t *Tags) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		*t = Tags{}
		return nil
	}

	var decoded []string
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded == nil {
		*t = Tags{}
		return nil
	}
	*t = decoded
	return nil
}

// MarshalJSON never emits null
func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}
