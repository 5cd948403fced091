package utils

import (
	"github.com/goccy/go-json"
)

// ToRecord converts a typed document into the generic field map the masker
// and exporter work on, using the document's json field names.
func ToRecord(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	record := make(map[string]interface{})
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// LookupPath resolves a dotted path such as "address.county" in a record.
func LookupPath(record map[string]interface{}, path string) (interface{}, bool) {
	current := interface{}(record)
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			continue
		}
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[path[start:i]]
		if !ok {
			return nil, false
		}
		start = i + 1
	}
	return current, true
}
