package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
	"github.com/custodia-labs/fieldmap/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interfaces.
var (
	_ driven.CatalogRepository = (*CatalogStore)(nil)
	_ driven.SchemaProvider    = (*CatalogStore)(nil)
	_ driven.CatalogImporter   = (*CatalogStore)(nil)
)

// CatalogStore is an in-memory catalog repository and schema provider.
// Content identifiers match ignoring braces and case; entity identifiers
// match exactly.
type CatalogStore struct {
	mu sync.RWMutex

	entityIDs   map[string]string // content id -> entity id
	contentIDs  map[string]string // entity id -> content id
	catalogs    map[string]string // content id -> catalog name
	paths       map[string][]domain.PathMapping
	entities    map[string]map[int]*domain.Node
	templates   map[string]domain.Schema
	variationPr string
}

// NewCatalogStore creates an empty in-memory catalog store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		entityIDs:  make(map[string]string),
		contentIDs: make(map[string]string),
		catalogs:   make(map[string]string),
		paths:      make(map[string][]domain.PathMapping),
		entities:   make(map[string]map[int]*domain.Node),
		templates:  make(map[string]domain.Schema),
	}
}

// Import stores the snapshot, replacing entries with the same keys.
// Path mappings for an identifier are replaced as a whole.
func (s *CatalogStore) Import(_ context.Context, snapshot *domain.CatalogSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range snapshot.Mappings {
		key := domain.NormaliseID(m.ContentID)
		s.entityIDs[key] = m.EntityID
		s.contentIDs[m.EntityID] = m.ContentID
		if m.CatalogName != "" {
			s.catalogs[key] = m.CatalogName
		}
	}

	replaced := make(map[string]bool)
	for _, p := range snapshot.Paths {
		key := domain.NormaliseID(p.ID)
		if !replaced[key] {
			s.paths[key] = nil
			replaced[key] = true
		}
		s.paths[key] = append(s.paths[key], p)
	}

	for _, e := range snapshot.Entities {
		key := domain.NormaliseID(e.ContentID)
		if s.entities[key] == nil {
			s.entities[key] = make(map[int]*domain.Node)
		}
		s.entities[key][e.Version] = e.Document
	}

	for _, t := range snapshot.Templates {
		s.templates[domain.NormaliseID(t.TemplateID)] = t
	}

	if snapshot.VariationProperties != "" {
		s.variationPr = snapshot.VariationProperties
	}
	return nil
}

// EntityIDForContent returns the entity identifier mapped to a content id.
func (s *CatalogStore) EntityIDForContent(_ context.Context, contentID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.entityIDs[domain.NormaliseID(contentID)]
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

// ContentIDForEntity returns the content identifier mapped to an entity id.
func (s *CatalogStore) ContentIDForEntity(_ context.Context, entityID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.contentIDs[entityID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

// Entity returns the document of a content item version.
// A version below 1 selects the latest stored version.
func (s *CatalogStore) Entity(_ context.Context, contentID string, version int) (*domain.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions, ok := s.entities[domain.NormaliseID(contentID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if version < 1 {
		version = latestVersion(versions)
	}
	doc, ok := versions[version]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func latestVersion(versions map[int]*domain.Node) int {
	latest := 0
	for v := range versions {
		if v > latest {
			latest = v
		}
	}
	return latest
}

// PathIDs returns the path identifiers of id in import order, keeping
// only those below ancestor when it is set.
func (s *CatalogStore) PathIDs(_ context.Context, id, ancestor string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths, ok := s.paths[domain.NormaliseID(id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	ids := make([]string, 0, len(paths))
	for _, p := range paths {
		if ancestor == "" || hasAncestor(p, ancestor) {
			ids = append(ids, p.PathID)
		}
	}
	return ids, nil
}

func hasAncestor(p domain.PathMapping, ancestor string) bool {
	for _, a := range p.Ancestors {
		if domain.SameID(a, ancestor) {
			return true
		}
	}
	return false
}

// CatalogName returns the catalog name of a content item.
func (s *CatalogStore) CatalogName(_ context.Context, contentID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.catalogs[domain.NormaliseID(contentID)]
	if !ok {
		return "", domain.ErrNotFound
	}
	return name, nil
}

// VariationProperties returns the variation property list.
func (s *CatalogStore) VariationProperties(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.variationPr == "" {
		return "", domain.ErrNotFound
	}
	return s.variationPr, nil
}

// GetSchema returns a copy of a stored template schema.
func (s *CatalogStore) GetSchema(_ context.Context, templateID string) (*domain.Schema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	schema, ok := s.templates[domain.NormaliseID(templateID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	schema.Fields = append([]domain.SchemaField(nil), schema.Fields...)
	schema.BaseTemplates = append([]string(nil), schema.BaseTemplates...)
	return &schema, nil
}
