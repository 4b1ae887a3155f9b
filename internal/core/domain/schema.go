package domain

import (
	"encoding/json"
	"strings"
)

// FieldType is the declared type of a schema field.
type FieldType string

// Field types recognised by the mapping.
const (
	FieldTypeText     FieldType = "text"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeDateTime FieldType = "datetime"
	FieldTypeGeneric  FieldType = "generic"
)

// IsValid returns true if the field type is recognised.
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText, FieldTypeCheckbox, FieldTypeDateTime, FieldTypeGeneric:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t FieldType) String() string {
	return string(t)
}

// ParseFieldType maps a repository field type name onto a FieldType.
// Unknown names map to FieldTypeGeneric.
func ParseFieldType(name string) FieldType {
	normalised := strings.ToLower(strings.TrimSpace(name))
	normalised = strings.ReplaceAll(normalised, "-", " ")
	switch normalised {
	case "checkbox", "boolean", "bool":
		return FieldTypeCheckbox
	case "datetime", "date time", "date":
		return FieldTypeDateTime
	case "text", "single line text", "multi line text", "rich text", "string":
		return FieldTypeText
	default:
		return FieldTypeGeneric
	}
}

// UnmarshalJSON accepts any repository type name.
func (t *FieldType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*t = ParseFieldType(name)
	return nil
}

// SchemaField is one typed slot of the target record.
type SchemaField struct {
	// ID is the field identifier used as the record key.
	ID string `json:"id"`

	// Name is the logical field name matched against document properties.
	Name string `json:"name"`

	// Type is the declared field type.
	Type FieldType `json:"type"`

	// IsDataField marks fields eligible for generic mapping.
	// Structural and system fields are not data fields.
	IsDataField bool `json:"is_data_field"`
}

// Schema is the ordered field list of a template.
type Schema struct {
	// TemplateID identifies the template.
	TemplateID string `json:"template_id"`

	// Name is the human-readable template name.
	Name string `json:"name,omitempty"`

	// BaseTemplates lists the template ids this template inherits from.
	BaseTemplates []string `json:"base_templates,omitempty"`

	// Fields are the template fields in declaration order.
	Fields []SchemaField `json:"fields"`
}

// FieldByName returns the first field with the given logical name.
func (s *Schema) FieldByName(name string) (SchemaField, bool) {
	if s == nil {
		return SchemaField{}, false
	}
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return SchemaField{}, false
}

// DataFields returns the fields eligible for generic mapping, in order.
func (s *Schema) DataFields() []SchemaField {
	if s == nil {
		return nil
	}
	fields := make([]SchemaField, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.IsDataField {
			fields = append(fields, f)
		}
	}
	return fields
}

// Is returns true if the schema is templateID or inherits from it.
func (s *Schema) Is(templateID string) bool {
	if s == nil || templateID == "" {
		return false
	}
	if SameID(s.TemplateID, templateID) {
		return true
	}
	for _, base := range s.BaseTemplates {
		if SameID(base, templateID) {
			return true
		}
	}
	return false
}
