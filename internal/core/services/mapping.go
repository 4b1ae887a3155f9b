package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
	"github.com/custodia-labs/fieldmap/internal/core/ports/driven"
	"github.com/custodia-labs/fieldmap/internal/core/ports/driving"
)

// Ensure MappingService implements the interface.
var _ driving.MappingService = (*MappingService)(nil)

// MappingService maps catalog entity documents onto the flat field records
// of their content item templates.
type MappingService struct {
	schemas  driven.SchemaProvider
	resolver *IdentifierResolver
	rules    *FieldRuleEngine
	settings domain.MappingSettings
	log      driven.Logger
}

// NewMappingService creates a mapping service. The logger is optional.
func NewMappingService(
	schemas driven.SchemaProvider,
	repo driven.CatalogRepository,
	settings domain.MappingSettings,
	log driven.Logger,
) *MappingService {
	if log == nil {
		log = nopLogger{}
	}
	resolver := NewIdentifierResolver(repo)
	return &MappingService{
		schemas:  schemas,
		resolver: resolver,
		rules:    NewFieldRuleEngine(resolver, settings.Fields, log),
		settings: settings,
		log:      log,
	}
}

// Map produces the field record of a content item version.
// Items outside this mapping are NotApplicable. Every other problem,
// panics included, is logged once and reported as Failed.
func (s *MappingService) Map(
	ctx context.Context, item domain.ItemDescriptor, version domain.VersionDescriptor,
) (result domain.MapResult) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", domain.ErrUnexpectedFault, r)
			s.log.Error(err, "mapping item %s (template %s)", item.ID, item.TemplateID)
			result = domain.Failed(err)
		}
	}()

	if err := s.checkApplicable(item); err != nil {
		s.log.Debug("item %s (template %s) skipped: %v", item.ID, item.TemplateID, err)
		return domain.NotApplicable(err)
	}

	record, err := s.mapItem(ctx, item, version)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrMalformedDocument) {
			err = fmt.Errorf("%w: %w", domain.ErrUnexpectedFault, err)
		}
		s.log.Error(err, "mapping item %s (template %s)", item.ID, item.TemplateID)
		return domain.Failed(err)
	}

	return domain.Mapped(record)
}

// checkApplicable rejects items owned by another provider and items whose
// template the repository manages natively.
func (s *MappingService) checkApplicable(item domain.ItemDescriptor) error {
	if !strings.EqualFold(item.Owner, s.settings.Owner) {
		return fmt.Errorf("%w: owned by %q", domain.ErrNotApplicable, item.Owner)
	}
	if s.settings.Templates.IsStructural(item.TemplateID) {
		return fmt.Errorf("%w: structural template", domain.ErrNotApplicable)
	}
	return nil
}

func (s *MappingService) mapItem(
	ctx context.Context, item domain.ItemDescriptor, version domain.VersionDescriptor,
) (*domain.FieldRecord, error) {
	schema, err := s.schemas.GetSchema(ctx, item.TemplateID)
	if err != nil {
		return nil, notFound(err, "schema %s", item.TemplateID)
	}
	if schema == nil {
		return nil, fmt.Errorf("schema %s: %w", item.TemplateID, domain.ErrNotFound)
	}

	mc, err := s.resolve(ctx, item, version, schema)
	if err != nil {
		return nil, err
	}

	record := domain.NewFieldRecord()
	for _, field := range schema.DataFields() {
		value, ok, err := s.rules.Apply(ctx, mc, field)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if ok {
			record.Set(field.ID, value)
		}
	}

	s.rules.MergeExternalSettings(mc, record)
	s.rules.MapRelationships(mc, record)
	s.rules.MapWorkflow(mc, record, s.settings.Templates.ProductVariant)
	s.rules.MapItemDefinitions(ctx, mc, record)
	if err := s.rules.MapComposerTemplates(mc, record); err != nil {
		return nil, err
	}

	s.addStandardFields(mc, record)
	return record, nil
}

// resolve fetches the entity document of an item and, for variation
// items, selects the variation child as the source node.
func (s *MappingService) resolve(
	ctx context.Context, item domain.ItemDescriptor, version domain.VersionDescriptor, schema *domain.Schema,
) (*mappingContext, error) {
	entityID, err := s.resolver.ResolveEntityID(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	mc := &mappingContext{
		item:      item,
		language:  version.Language,
		contentID: item.ID,
		schema:    schema,
		isVariant: schema.Is(s.settings.Templates.SellableItemVariant),
	}
	if mc.language == "" {
		mc.language = s.settings.DefaultLanguage
	}

	var variationID string
	if mc.isVariant {
		composite, err := domain.ParseCompositeID(entityID)
		if err != nil {
			return nil, err
		}
		parentID, err := s.resolver.ResolveContentID(ctx, composite.ParentID)
		if err != nil {
			return nil, err
		}
		mc.contentID = parentID
		variationID = composite.VariationID
	}

	entity, err := s.resolver.FetchEntity(ctx, mc.contentID, version.Number)
	if err != nil {
		return nil, err
	}
	mc.entity = entity
	mc.source = entity
	mc.tokens = []*domain.Node{entity}

	if variationID != "" {
		variation, ok := domain.FindVariation(entity, variationID)
		if !ok {
			return nil, fmt.Errorf("%w: variation %s not found in entity %s",
				domain.ErrMalformedDocument, variationID, entityID)
		}
		mc.source = variation
		mc.tokens = []*domain.Node{variation, entity}
	}

	return mc, nil
}

// addStandardFields writes the display name, audit fields and read ACL.
// The display name comes from the source node; audit fields always come
// from the entity root. Audit dates that do not parse are written as found.
func (s *MappingService) addStandardFields(mc *mappingContext, record *domain.FieldRecord) {
	fields := s.settings.Fields
	root := []*domain.Node{mc.entity}

	if name, ok := mc.source.StringProperty(domain.PropertyDisplayName); ok {
		record.Set(fields.DisplayName, name)
	}

	dates := []struct {
		property string
		fieldID  string
	}{
		{domain.PropertyDateCreated, fields.Created},
		{domain.PropertyDateUpdated, fields.Updated},
	}
	for _, d := range dates {
		raw, ok := domain.EntityValue(root, d.property)
		if !ok || raw == "" {
			continue
		}
		iso, err := ToISODate(raw)
		if err != nil {
			s.log.Debug("%s of %s kept as %q: %v", d.property, mc.contentID, raw, err)
			iso = raw
		}
		record.Set(d.fieldID, iso)
	}

	createdBy, _ := domain.EntityValue(root, domain.PropertyCreatedBy)
	if createdBy != "" {
		record.Set(fields.CreatedBy, createdBy)
	}
	if updatedBy, ok := domain.EntityValue(root, domain.PropertyUpdatedBy); ok && updatedBy != "" {
		record.Set(fields.UpdatedBy, updatedBy)
	} else if createdBy != "" {
		record.Set(fields.UpdatedBy, createdBy)
	}

	record.Set(fields.Security, s.settings.Security)
}
