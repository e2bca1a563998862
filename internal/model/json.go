package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"log"
)

// StringList is a list of strings persisted as a JSON text column.
type StringList []string

// Value serializes the list for storage. Empty lists are stored as NULL.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan decodes the stored JSON. A malformed value degrades to an absent
// field instead of failing the whole row.
func (l *StringList) Scan(src interface{}) error {
	data, ok := rawBytes(src)
	if !ok || len(data) == 0 {
		*l = nil
		return nil
	}
	var decoded []string
	if err := json.Unmarshal(data, &decoded); err != nil {
		log.Printf("model: dropping malformed JSON list column: %v", err)
		*l = nil
		return nil
	}
	*l = decoded
	return nil
}

// StringMap is a key to value mapping persisted as a JSON text column.
type StringMap map[string]string

// Value serializes the map for storage. Empty maps are stored as NULL.
func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan decodes the stored JSON with the same degrade-on-failure policy
// as StringList.
func (m *StringMap) Scan(src interface{}) error {
	data, ok := rawBytes(src)
	if !ok || len(data) == 0 {
		*m = nil
		return nil
	}
	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		log.Printf("model: dropping malformed JSON map column: %v", err)
		*m = nil
		return nil
	}
	*m = decoded
	return nil
}

func rawBytes(src interface{}) ([]byte, bool) {
	switch v := src.(type) {
	case nil:
		return nil, false
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		log.Printf("model: unexpected JSON column type %s", fmt.Sprintf("%T", src))
		return nil, false
	}
}
