package domain

import (
	"bytes"
	"encoding/json"
)

// FieldValue is one entry of a FieldRecord.
type FieldValue struct {
	FieldID string `json:"field_id"`
	Value   string `json:"value"`
}

// FieldRecord is an insertion-ordered mapping from field id to value.
// It holds at most one value per field id.
type FieldRecord struct {
	order  []string
	values map[string]string
}

// NewFieldRecord creates an empty record.
func NewFieldRecord() *FieldRecord {
	return &FieldRecord{values: make(map[string]string)}
}

// Set stores a value, replacing any previous one.
// A replaced field keeps its original position.
func (r *FieldRecord) Set(fieldID, value string) {
	if _, exists := r.values[fieldID]; !exists {
		r.order = append(r.order, fieldID)
	}
	r.values[fieldID] = value
}

// SetIfAbsent stores a value only if the field has none yet.
// It reports whether the value was stored.
func (r *FieldRecord) SetIfAbsent(fieldID, value string) bool {
	if _, exists := r.values[fieldID]; exists {
		return false
	}
	r.Set(fieldID, value)
	return true
}

// Get returns the value of a field.
func (r *FieldRecord) Get(fieldID string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r.values[fieldID]
	return v, ok
}

// Has returns true if the field has a value.
func (r *FieldRecord) Has(fieldID string) bool {
	_, ok := r.Get(fieldID)
	return ok
}

// Len returns the number of fields with a value.
func (r *FieldRecord) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Entries returns the record entries in insertion order.
func (r *FieldRecord) Entries() []FieldValue {
	if r == nil {
		return nil
	}
	entries := make([]FieldValue, len(r.order))
	for i, id := range r.order {
		entries[i] = FieldValue{FieldID: id, Value: r.values[id]}
	}
	return entries
}

// MarshalJSON encodes the record as a JSON object in insertion order.
func (r *FieldRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range r.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.FieldID)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
