package driven

import (
	"context"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
)

// CatalogRepository is the identifier-mapping and document store of the
// catalog. Implementations must be safe for concurrent reads.
// Every lookup that finds nothing returns domain.ErrNotFound.
type CatalogRepository interface {
	// EntityIDForContent returns the catalog entity identifier mapped to a
	// content identifier. Variation items return a composite identifier.
	EntityIDForContent(ctx context.Context, contentID string) (string, error)

	// ContentIDForEntity returns the content identifier mapped to a catalog
	// entity identifier.
	ContentIDForEntity(ctx context.Context, entityID string) (string, error)

	// Entity returns the entity document stored for a content identifier
	// at the given version.
	Entity(ctx context.Context, contentID string, version int) (*domain.Node, error)

	// PathIDs returns the content identifiers on the containment path of
	// id, in stored order. A non-empty ancestor restricts the result to
	// path identifiers below that ancestor.
	PathIDs(ctx context.Context, id, ancestor string) ([]string, error)

	// CatalogName returns the name of the catalog a content item belongs to.
	CatalogName(ctx context.Context, contentID string) (string, error)

	// VariationProperties returns the descriptive list of properties that
	// distinguish variations.
	VariationProperties(ctx context.Context) (string, error)
}

// CatalogImporter loads a catalog snapshot into a repository.
type CatalogImporter interface {
	// Import stores every mapping, path, entity version and template of
	// the snapshot, replacing entries with the same keys.
	Import(ctx context.Context, snapshot *domain.CatalogSnapshot) error
}
