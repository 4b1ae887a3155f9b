package domain

import (
	"fmt"
	"strings"
)

// ItemDescriptor identifies a content item to be mapped.
type ItemDescriptor struct {
	// ID is the content-repository identifier of the item.
	ID string `json:"id"`

	// TemplateID identifies the item's template.
	TemplateID string `json:"template_id"`

	// Owner names the data provider that owns the item.
	Owner string `json:"owner"`
}

// VersionDescriptor identifies the language and version of a content item.
type VersionDescriptor struct {
	// Language is the locale name, e.g. "en".
	Language string `json:"language"`

	// Number is the entity version number.
	Number int `json:"number"`
}

// CompositeID pairs a parent catalog entity identifier with a variation
// identifier, written as "parent|variation".
type CompositeID struct {
	ParentID    string
	VariationID string
}

// ParseCompositeID splits a composite identifier. It must split into
// exactly two non-empty parts.
func ParseCompositeID(id string) (CompositeID, error) {
	parts := strings.Split(id, pipeSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return CompositeID{}, fmt.Errorf("%w: composite id %q", ErrMalformedDocument, id)
	}
	return CompositeID{ParentID: parts[0], VariationID: parts[1]}, nil
}

// String returns the composite form.
func (c CompositeID) String() string {
	return c.ParentID + pipeSeparator + c.VariationID
}

// NormaliseID strips braces and lower-cases a repository identifier.
func NormaliseID(id string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(id), "{}"))
}

// SameID compares two repository identifiers ignoring braces and case.
func SameID(a, b string) bool {
	return NormaliseID(a) == NormaliseID(b)
}

// BracedID formats an identifier in the repository's brace-delimited form.
func BracedID(id string) string {
	return "{" + strings.Trim(id, "{}") + "}"
}
