package domain

import (
	"encoding/json"
	"fmt"
)

// IDMapping links a content-repository identifier to a catalog entity
// identifier. Variation items map to a composite "parent|variation" id.
type IDMapping struct {
	ContentID   string `json:"content_id"`
	EntityID    string `json:"entity_id"`
	CatalogName string `json:"catalog_name,omitempty"`
}

// PathMapping records one content identifier on the containment path of
// an identifier referenced from entity documents.
type PathMapping struct {
	// ID is the identifier as referenced in piped document lists.
	ID string `json:"id"`

	// PathID is the content identifier on the containment path.
	PathID string `json:"path_id"`

	// Ancestors lists the content identifiers above PathID, nearest first.
	Ancestors []string `json:"ancestors,omitempty"`
}

// EntityVersion is one stored version of an entity document.
type EntityVersion struct {
	ContentID string `json:"content_id"`
	Version   int    `json:"version"`
	Document  *Node  `json:"document"`
}

// CatalogSnapshot is a self-contained export of everything the catalog
// repository serves: identifier and path mappings, entity documents and
// templates.
type CatalogSnapshot struct {
	Mappings            []IDMapping     `json:"mappings"`
	Paths               []PathMapping   `json:"paths,omitempty"`
	Entities            []EntityVersion `json:"entities"`
	Templates           []Schema        `json:"templates"`
	VariationProperties string          `json:"variation_properties,omitempty"`
}

// ParseCatalogSnapshot decodes and validates a JSON snapshot.
func ParseCatalogSnapshot(data []byte) (*CatalogSnapshot, error) {
	var snapshot CatalogSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: decoding snapshot: %v", ErrInvalidInput, err)
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Validate checks that every entry carries its identifiers.
func (s *CatalogSnapshot) Validate() error {
	for i, m := range s.Mappings {
		if m.ContentID == "" || m.EntityID == "" {
			return fmt.Errorf("%w: mapping %d needs content_id and entity_id", ErrInvalidInput, i)
		}
	}
	for i, p := range s.Paths {
		if p.ID == "" || p.PathID == "" {
			return fmt.Errorf("%w: path %d needs id and path_id", ErrInvalidInput, i)
		}
	}
	for i, e := range s.Entities {
		if e.ContentID == "" || e.Document.IsNull() {
			return fmt.Errorf("%w: entity %d needs content_id and document", ErrInvalidInput, i)
		}
	}
	for i, t := range s.Templates {
		if t.TemplateID == "" {
			return fmt.Errorf("%w: template %d needs template_id", ErrInvalidInput, i)
		}
		for j, f := range t.Fields {
			if f.ID == "" || f.Name == "" {
				return fmt.Errorf("%w: template %s field %d needs id and name", ErrInvalidInput, t.TemplateID, j)
			}
		}
	}
	return nil
}
