package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringMap stores attribute/value pairs (variant options) as a JSON text
// column, portable across Postgres and sqlite.
type StringMap map[string]string

func (m *StringMap) Scan(src any) error {
	if src == nil {
		*m = StringMap{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return m.parseJSON([]byte(v))
	case []byte:
		return m.parseJSON(v)
	default:
		return fmt.Errorf("StringMap: unsupported Scan type %T", src)
	}
}

func (m StringMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	encoded, err := json.Marshal(map[string]string(m))
	if err != nil {
		return nil, fmt.Errorf("StringMap: encode: %w", err)
	}
	return string(encoded), nil
}

func (m *StringMap) parseJSON(raw []byte) error {
	if len(raw) == 0 {
		*m = StringMap{}
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringMap: decode %q: %w", raw, err)
	}
	*m = StringMap(out)
	return nil
}
