package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
)

const (
	// definitionsSeparator joins catalog item definitions.
	definitionsSeparator = "\r\n"

	// isoDateLayout is the repository's canonical date-time form.
	isoDateLayout = "20060102T150405Z"
)

// Layouts accepted for composer date-time properties, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006",
	isoDateLayout,
	"20060102T150405",
}

// setIfAbsent stores a pass value unless the field already has one, in
// which case the existing value is kept and the conflict is logged.
func (e *FieldRuleEngine) setIfAbsent(record *domain.FieldRecord, field domain.SchemaField, value, pass string) {
	if !record.SetIfAbsent(field.ID, value) {
		e.log.Debug("%s: field %s already has a value, keeping it", pass, field.Name)
	}
}

// MergeExternalSettings overlays the item's language settings, then its
// shared settings, onto schema fields that have no value yet.
func (e *FieldRuleEngine) MergeExternalSettings(mc *mappingContext, record *domain.FieldRecord) {
	collection := e.externalSettingsCollection(mc.components(), mc.item.ID)
	settings := collection[domain.NormaliseID(mc.item.ID)]

	for _, setting := range settings.ForLanguage(mc.language) {
		field, ok := mc.schema.FieldByName(setting.Name)
		if !ok {
			continue
		}
		e.setIfAbsent(record, field, setting.Value, "external settings")
	}
}

// externalSettingsCollection gathers the external settings components of a
// component list, keyed by normalised target content identifier.
// Components without a TargetId belong to defaultTarget.
func (e *FieldRuleEngine) externalSettingsCollection(components []*domain.Node, defaultTarget string) map[string]domain.ExternalSettings {
	collection := make(map[string]domain.ExternalSettings)

	for _, component := range components {
		if !strings.Contains(component.ComponentKind(), domain.ComponentExternalSettings) {
			continue
		}

		target, ok := component.StringProperty("TargetId")
		if !ok || target == "" {
			target = defaultTarget
		}

		settings, err := parseExternalSettings(component)
		if err != nil {
			e.log.Warn("external settings for %s: %v", target, err)
			continue
		}

		key := domain.NormaliseID(target)
		merged := collection[key]
		if merged == nil {
			merged = make(domain.ExternalSettings)
			collection[key] = merged
		}
		for locale, values := range settings {
			merged[locale] = append(merged[locale], values...)
		}
	}

	return collection
}

// parseExternalSettings reads the Settings property, which is either an
// object or a JSON string of {locale: {name: value}}.
func parseExternalSettings(component *domain.Node) (domain.ExternalSettings, error) {
	raw, ok := component.Property("Settings")
	if !ok {
		return nil, nil
	}

	if text, ok := raw.Text(); ok {
		parsed, err := domain.ParseNode([]byte(text))
		if err != nil {
			return nil, err
		}
		raw = parsed
	}
	if raw.Kind() != domain.NodeObject {
		return nil, fmt.Errorf("%w: settings must be an object, got %s", domain.ErrMalformedDocument, raw.Kind())
	}

	settings := make(domain.ExternalSettings)
	for _, locale := range raw.Keys() {
		values, _ := raw.Get(locale)
		for _, name := range values.Keys() {
			if value, ok := values.StringProperty(name); ok {
				settings[locale] = append(settings[locale], domain.Setting{Name: name, Value: value})
			}
		}
	}
	return settings, nil
}

// MapRelationships writes the piped target list of every relationship
// whose name matches a schema field.
func (e *FieldRuleEngine) MapRelationships(mc *mappingContext, record *domain.FieldRecord) {
	component, ok := domain.FindComponentByKind(mc.components(), domain.ComponentRelationships)
	if !ok {
		return
	}
	relationships, ok := component.Property("Relationships")
	if !ok {
		return
	}

	for _, relationship := range relationships.Items() {
		name, _ := relationship.StringProperty(domain.PropertyName)
		field, ok := mc.schema.FieldByName(name)
		if !ok {
			continue
		}
		targets, _ := relationship.StringList("RelationshipList")
		e.setIfAbsent(record, field, domain.JoinPiped(targets), "relationships")
	}
}

// MapWorkflow writes the active workflow, default workflow and workflow
// state fields from the workflow component. Variant template items carry
// no workflow of their own.
func (e *FieldRuleEngine) MapWorkflow(mc *mappingContext, record *domain.FieldRecord, productVariantTemplate string) {
	if mc.schema.Is(productVariantTemplate) {
		return
	}

	component, ok := domain.FindComponentByKind(mc.components(), domain.ComponentWorkflow)
	if !ok {
		return
	}
	workflow, _ := component.Property("Workflow")
	workflowRef, _ := workflow.StringProperty("EntityTarget")
	state, _ := component.StringProperty("CurrentState")
	if workflowRef == "" || state == "" {
		return
	}

	workflowID := domain.BracedID(e.resolver.ComputeDeterministicID(workflowRef))
	stateID := domain.BracedID(e.resolver.ComputeDeterministicID(workflowRef + "|" + state))

	record.Set(e.fields.Workflow, workflowID)
	record.Set(e.fields.DefaultWorkflow, workflowID)
	record.Set(e.fields.WorkflowState, stateID)
}

// MapItemDefinitions fills the item definitions field, first from an item
// definitions component and then, if still empty, from the catalogs
// component entry of the item's catalog.
func (e *FieldRuleEngine) MapItemDefinitions(ctx context.Context, mc *mappingContext, record *domain.FieldRecord) {
	field, ok := mc.schema.FieldByName(domain.FieldItemDefinitions)
	if !ok {
		return
	}

	components := mc.components()

	if component, ok := domain.FindComponentByKind(components, domain.ComponentItemDefinitions); ok {
		if definitions, ok := component.StringList("Definitions"); ok {
			e.setIfAbsent(record, field, strings.Join(definitions, definitionsSeparator), "item definitions")
		}
	}

	component, ok := domain.FindComponentByKind(components, domain.ComponentCatalogs)
	if !ok {
		return
	}
	catalogName, err := e.resolver.CatalogNameFor(ctx, mc.item.ID)
	if err != nil {
		e.log.Warn("item definitions for %s: %v", mc.item.ID, err)
		return
	}
	children, _ := component.Property(domain.PropertyChildComponents)
	for _, child := range children.Items() {
		if name, _ := child.StringProperty(domain.PropertyName); name != catalogName {
			continue
		}
		if definition, ok := child.StringProperty("ItemDefinition"); ok {
			e.setIfAbsent(record, field, definition, "catalog item definitions")
		}
		return
	}
}

// MapComposerTemplates writes composer view properties onto matching
// fields, coerced by field type. Later properties overwrite earlier ones.
func (e *FieldRuleEngine) MapComposerTemplates(mc *mappingContext, record *domain.FieldRecord) error {
	component, ok := domain.FindComponentByKind(mc.components(), domain.ComponentEntityView)
	if !ok {
		return nil
	}
	view, _ := component.Property("View")
	childViews, _ := view.Property("ChildViews")

	for _, childView := range childViews.Items() {
		properties, _ := childView.Property("Properties")
		for _, property := range properties.Items() {
			name, _ := property.StringProperty(domain.PropertyName)
			field, ok := mc.schema.FieldByName(name)
			if !ok {
				continue
			}

			raw, hasValue := property.StringProperty("Value")
			value, ok, err := coerce(field, raw, hasValue)
			if err != nil {
				return fmt.Errorf("composer property %s: %w", name, err)
			}
			if ok {
				record.Set(field.ID, value)
			}
		}
	}
	return nil
}

// coerce converts a composer property value to the declared field type.
func coerce(field domain.SchemaField, raw string, hasValue bool) (string, bool, error) {
	switch field.Type {
	case domain.FieldTypeCheckbox:
		if hasValue && raw == "true" {
			return "1", true, nil
		}
		return "0", true, nil
	case domain.FieldTypeDateTime:
		if !hasValue {
			return "", false, nil
		}
		iso, err := ToISODate(raw)
		if err != nil {
			return "", false, err
		}
		return iso, true, nil
	default:
		return raw, hasValue, nil
	}
}

// ToISODate parses a date-time string and formats it in the repository's
// canonical form, in UTC. Values without a zone are taken as UTC.
func ToISODate(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(isoDateLayout), nil
		}
	}
	return "", fmt.Errorf("%w: unrecognised date %q", domain.ErrMalformedDocument, value)
}
