package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
	"github.com/custodia-labs/fieldmap/internal/core/ports/driven"
	"github.com/custodia-labs/fieldmap/internal/core/ports/driving"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService loads catalog snapshots and answers diagnostic lookups.
type CatalogService struct {
	importer driven.CatalogImporter
	schemas  driven.SchemaProvider
	resolver *IdentifierResolver
	log      driven.Logger
}

// NewCatalogService creates a catalog service. The logger is optional.
func NewCatalogService(
	importer driven.CatalogImporter,
	schemas driven.SchemaProvider,
	repo driven.CatalogRepository,
	log driven.Logger,
) *CatalogService {
	if log == nil {
		log = nopLogger{}
	}
	return &CatalogService{
		importer: importer,
		schemas:  schemas,
		resolver: NewIdentifierResolver(repo),
		log:      log,
	}
}

// Import loads a snapshot into the catalog repository.
func (s *CatalogService) Import(ctx context.Context, snapshot *domain.CatalogSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: snapshot is required", domain.ErrInvalidInput)
	}
	if err := s.importer.Import(ctx, snapshot); err != nil {
		return fmt.Errorf("importing snapshot: %w", err)
	}
	s.log.Debug("imported %d mappings, %d paths, %d entities, %d templates",
		len(snapshot.Mappings), len(snapshot.Paths), len(snapshot.Entities), len(snapshot.Templates))
	return nil
}

// Schema returns the field list of a template.
func (s *CatalogService) Schema(ctx context.Context, templateID string) (*domain.Schema, error) {
	if templateID == "" {
		return nil, fmt.Errorf("%w: template id is required", domain.ErrInvalidInput)
	}
	schema, err := s.schemas.GetSchema(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", templateID, err)
	}
	return schema, nil
}

// Describe resolves a content identifier to its catalog entity identifier.
// Variation items also report their parent content identifier.
func (s *CatalogService) Describe(ctx context.Context, contentID string) (*driving.ItemInfo, error) {
	if contentID == "" {
		return nil, fmt.Errorf("%w: content id is required", domain.ErrInvalidInput)
	}

	entityID, err := s.resolver.ResolveEntityID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	info := &driving.ItemInfo{ContentID: contentID, EntityID: entityID}

	if composite, err := domain.ParseCompositeID(entityID); err == nil {
		parentID, err := s.resolver.ResolveContentID(ctx, composite.ParentID)
		if err != nil {
			return nil, err
		}
		info.ParentID = parentID
		info.VariationID = composite.VariationID
	}

	catalogID := contentID
	if info.ParentID != "" {
		catalogID = info.ParentID
	}
	if name, err := s.resolver.CatalogNameFor(ctx, catalogID); err == nil {
		info.CatalogName = name
	}

	return info, nil
}
