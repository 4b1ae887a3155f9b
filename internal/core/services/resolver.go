package services

import (
	"context"
	"crypto/md5" //nolint:gosec // identifiers, not security
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
	"github.com/custodia-labs/fieldmap/internal/core/ports/driven"
)

// IdentifierResolver bridges content-repository identifiers and catalog
// entity identifiers. Every repository failure surfaces as
// domain.ErrNotFound so callers decide whether a miss is fatal.
type IdentifierResolver struct {
	repo driven.CatalogRepository
}

// NewIdentifierResolver creates a resolver over a catalog repository.
func NewIdentifierResolver(repo driven.CatalogRepository) *IdentifierResolver {
	return &IdentifierResolver{repo: repo}
}

// ResolveEntityID returns the (possibly composite) catalog entity
// identifier of a content item.
func (r *IdentifierResolver) ResolveEntityID(ctx context.Context, contentID string) (string, error) {
	id, err := r.repo.EntityIDForContent(ctx, contentID)
	if err != nil {
		return "", notFound(err, "entity id for content %s", contentID)
	}
	if id == "" {
		return "", fmt.Errorf("entity id for content %s: %w", contentID, domain.ErrNotFound)
	}
	return id, nil
}

// ResolveContentID returns the content identifier of a catalog entity.
func (r *IdentifierResolver) ResolveContentID(ctx context.Context, entityID string) (string, error) {
	id, err := r.repo.ContentIDForEntity(ctx, entityID)
	if err != nil {
		return "", notFound(err, "content id for entity %s", entityID)
	}
	if id == "" {
		return "", fmt.Errorf("content id for entity %s: %w", entityID, domain.ErrNotFound)
	}
	return id, nil
}

// FetchEntity returns the entity document of a content item version.
func (r *IdentifierResolver) FetchEntity(ctx context.Context, contentID string, version int) (*domain.Node, error) {
	doc, err := r.repo.Entity(ctx, contentID, version)
	if err != nil {
		return nil, notFound(err, "entity %s version %d", contentID, version)
	}
	if doc.IsNull() {
		return nil, fmt.Errorf("entity %s version %d: %w", contentID, version, domain.ErrNotFound)
	}
	return doc, nil
}

// ResolvePathIDs expands an identifier into the content identifiers on its
// containment path. A non-empty ancestor keeps only identifiers below it.
func (r *IdentifierResolver) ResolvePathIDs(ctx context.Context, id, ancestor string) ([]string, error) {
	ids, err := r.repo.PathIDs(ctx, id, ancestor)
	if err != nil {
		return nil, notFound(err, "path ids for %s", id)
	}
	return ids, nil
}

// CatalogNameFor returns the catalog name of a content item.
func (r *IdentifierResolver) CatalogNameFor(ctx context.Context, contentID string) (string, error) {
	name, err := r.repo.CatalogName(ctx, contentID)
	if err != nil {
		return "", notFound(err, "catalog name for %s", contentID)
	}
	return name, nil
}

// VariationProperties returns the descriptive variation property list.
func (r *IdentifierResolver) VariationProperties(ctx context.Context) (string, error) {
	value, err := r.repo.VariationProperties(ctx)
	if err != nil {
		return "", notFound(err, "variation properties")
	}
	return value, nil
}

// ComputeDeterministicID derives a stable identifier from a seed.
func (r *IdentifierResolver) ComputeDeterministicID(seed string) string {
	return DeterministicID(seed)
}

// DeterministicID hashes seed with MD5 and lays the digest out as a GUID
// whose first three groups are little-endian, so the same seed yields the
// identifier the content repository derives for it.
func DeterministicID(seed string) string {
	sum := md5.Sum([]byte(seed)) //nolint:gosec // identifiers, not security
	b := sum[:]
	b[0], b[1], b[2], b[3] = b[3], b[2], b[1], b[0]
	b[4], b[5] = b[5], b[4]
	b[6], b[7] = b[7], b[6]

	id, err := uuid.FromBytes(b)
	if err != nil {
		// FromBytes only fails on a length mismatch.
		panic(err)
	}
	return id.String()
}

func notFound(err error, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("%s: %w: %w", what, domain.ErrNotFound, err)
}
