package driving

import (
	"context"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
)

// CatalogService manages the catalog data the mapping reads from.
type CatalogService interface {
	// Import loads a snapshot into the catalog repository.
	Import(ctx context.Context, snapshot *domain.CatalogSnapshot) error

	// Schema returns the field list of a template.
	Schema(ctx context.Context, templateID string) (*domain.Schema, error)

	// Describe resolves a content identifier to its catalog entity
	// identifier, for diagnostics.
	Describe(ctx context.Context, contentID string) (*ItemInfo, error)
}

// ItemInfo summarises how a content item resolves in the catalog.
type ItemInfo struct {
	ContentID   string `json:"content_id"`
	EntityID    string `json:"entity_id"`
	ParentID    string `json:"parent_id,omitempty"`
	VariationID string `json:"variation_id,omitempty"`
	CatalogName string `json:"catalog_name,omitempty"`
}
