package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
	"github.com/custodia-labs/fieldmap/internal/core/ports/driven"
)

// geoSeparator joins the parts of a composed location.
const geoSeparator = ", "

// mappingContext is the per-call state shared by the field rules.
type mappingContext struct {
	item     domain.ItemDescriptor
	language string

	// contentID is the content identifier the entity was fetched by. For
	// variation items it is the parent's identifier.
	contentID string

	entity *domain.Node
	source *domain.Node

	// tokens are searched in order by name-based lookups: the variation
	// first when present, then the entity.
	tokens []*domain.Node

	schema    *domain.Schema
	isVariant bool
}

// components returns the component list of the source node.
func (mc *mappingContext) components() []*domain.Node {
	return mc.source.Components()
}

// fieldRule derives the value of one schema field. It reports false when
// the field gets no value.
type fieldRule func(ctx context.Context, mc *mappingContext, field domain.SchemaField) (string, bool, error)

// FieldRuleEngine decides, per schema field, how its value is derived from
// the entity document. Rules are keyed by logical field name; fields
// without a dedicated rule use a direct lookup by name.
type FieldRuleEngine struct {
	resolver *IdentifierResolver
	fields   domain.StandardFields
	log      driven.Logger
	rules    map[string]fieldRule
}

// NewFieldRuleEngine creates a rule engine. The rule table is built once
// and shared by every mapping call.
func NewFieldRuleEngine(resolver *IdentifierResolver, fields domain.StandardFields, log driven.Logger) *FieldRuleEngine {
	if log == nil {
		log = nopLogger{}
	}
	e := &FieldRuleEngine{
		resolver: resolver,
		fields:   fields,
		log:      log,
	}
	e.rules = map[string]fieldRule{
		domain.FieldVariationProperties:      e.variationProperties,
		domain.FieldAreaServed:               e.geoLocation,
		domain.FieldChildrenCategoryList:     e.childrenList,
		domain.FieldChildrenSellableItemList: e.childrenList,
		domain.FieldParentCatalogList:        e.parentList,
		domain.FieldParentCategoryList:       e.parentList,
	}
	return e
}

// Apply derives the value of one schema field.
func (e *FieldRuleEngine) Apply(ctx context.Context, mc *mappingContext, field domain.SchemaField) (string, bool, error) {
	if rule, ok := e.rules[field.Name]; ok {
		return rule(ctx, mc, field)
	}
	return e.direct(ctx, mc, field)
}

// direct looks the field up by name across the lookup tokens.
func (e *FieldRuleEngine) direct(_ context.Context, mc *mappingContext, field domain.SchemaField) (string, bool, error) {
	value, ok := domain.EntityValue(mc.tokens, field.Name)
	return value, ok, nil
}

// variationProperties emits the repository's variation property list.
func (e *FieldRuleEngine) variationProperties(ctx context.Context, _ *mappingContext, field domain.SchemaField) (string, bool, error) {
	value, err := e.resolver.VariationProperties(ctx)
	if err != nil {
		e.log.Warn("field %s: %v", field.Name, err)
		return "", false, nil
	}
	return value, true, nil
}

// geoLocation composes "City, Region, PostalCode", omitting empty parts.
func (e *FieldRuleEngine) geoLocation(_ context.Context, mc *mappingContext, field domain.SchemaField) (string, bool, error) {
	location, ok := domain.EntityProperty(mc.tokens, field.Name)
	if !ok || location.Kind() != domain.NodeObject {
		return "", false, nil
	}

	parts := make([]string, 0, 3)
	for _, name := range []string{"City", "Region", "PostalCode"} {
		if part, ok := location.StringProperty(name); ok && part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, geoSeparator), true, nil
}

// childrenList expands each listed identifier into the path identifiers
// that sit below the item being mapped. Order is kept; duplicates are not
// removed.
func (e *FieldRuleEngine) childrenList(ctx context.Context, mc *mappingContext, field domain.SchemaField) (string, bool, error) {
	value, _ := domain.EntityValue(mc.tokens, field.Name)

	var mapped []string
	for _, id := range domain.SplitPipedList(value) {
		pathIDs, err := e.resolver.ResolvePathIDs(ctx, id, mc.contentID)
		if err != nil {
			e.log.Debug("field %s: skipping %s: %v", field.Name, id, err)
			continue
		}
		mapped = append(mapped, pathIDs...)
	}
	return domain.JoinPiped(mapped), true, nil
}

// parentList expands each listed identifier into all of its path
// identifiers and removes case-insensitive duplicates, keeping the first.
func (e *FieldRuleEngine) parentList(ctx context.Context, mc *mappingContext, field domain.SchemaField) (string, bool, error) {
	value, _ := domain.EntityValue(mc.tokens, field.Name)

	var mapped []string
	seen := make(map[string]struct{})
	for _, id := range domain.SplitPipedList(value) {
		pathIDs, err := e.resolver.ResolvePathIDs(ctx, id, "")
		if err != nil {
			e.log.Debug("field %s: skipping %s: %v", field.Name, id, err)
			continue
		}
		for _, pathID := range pathIDs {
			key := strings.ToLower(pathID)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			mapped = append(mapped, pathID)
		}
	}
	return domain.JoinPiped(mapped), true, nil
}

// nopLogger discards entries when no logger is injected.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any)        {}
func (nopLogger) Warn(string, ...any)         {}
func (nopLogger) Error(error, string, ...any) {}
