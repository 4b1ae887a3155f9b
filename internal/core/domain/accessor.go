package domain

import "strings"

// Component discriminators as they appear in the @odata.type property.
const (
	ComponentItemVariations   = "ItemVariationsComponent"
	ComponentRelationships    = "RelationshipsComponent"
	ComponentWorkflow         = "WorkflowComponent"
	ComponentItemDefinitions  = "ItemDefinitionsComponent"
	ComponentCatalogs         = "CatalogsComponent"
	ComponentEntityView       = "EntityViewComponent"
	ComponentExternalSettings = "ExternalSettingsComponent"
)

// Well-known entity document property names.
const (
	PropertyComponents      = "Components"
	PropertyChildComponents = "ChildComponents"
	PropertyID              = "Id"
	PropertyName            = "Name"
	PropertyDisplayName     = "DisplayName"
	PropertyDateCreated     = "DateCreated"
	PropertyDateUpdated     = "DateUpdated"
	PropertyCreatedBy       = "CreatedBy"
	PropertyUpdatedBy       = "UpdatedBy"

	odataTypeKey = "@odata.type"
)

// pipeSeparator joins list values in documents and records.
const pipeSeparator = "|"

// Property returns a non-null property of an object node.
func (n *Node) Property(name string) (*Node, bool) {
	v, ok := n.Get(name)
	if !ok || v.IsNull() {
		return nil, false
	}
	return v, true
}

// StringProperty returns a scalar property rendered as text.
func (n *Node) StringProperty(name string) (string, bool) {
	v, ok := n.Property(name)
	if !ok {
		return "", false
	}
	return v.Text()
}

// StringList returns the scalar items of an array property.
// Non-scalar items are skipped.
func (n *Node) StringList(name string) ([]string, bool) {
	v, ok := n.Property(name)
	if !ok || v.Kind() != NodeArray {
		return nil, false
	}
	values := make([]string, 0, v.Len())
	for _, item := range v.Items() {
		if s, ok := item.Text(); ok {
			values = append(values, s)
		}
	}
	return values, true
}

// ComponentKind returns the @odata.type discriminator of a component.
func (n *Node) ComponentKind() string {
	kind, _ := n.StringProperty(odataTypeKey)
	return kind
}

// Components returns the component list of an entity or variation node.
// Entities carry Components; variation children carry ChildComponents.
func (n *Node) Components() []*Node {
	if list, ok := n.Property(PropertyComponents); ok {
		return list.Items()
	}
	if list, ok := n.Property(PropertyChildComponents); ok {
		return list.Items()
	}
	return nil
}

// FindComponentByKind returns the first component whose discriminator
// contains kind.
func FindComponentByKind(components []*Node, kind string) (*Node, bool) {
	for _, c := range components {
		if strings.Contains(c.ComponentKind(), kind) {
			return c, true
		}
	}
	return nil, false
}

// FindVariation locates the variation child with the given id inside the
// entity's item variations component.
func FindVariation(entity *Node, variationID string) (*Node, bool) {
	variations, ok := FindComponentByKind(entity.Components(), ComponentItemVariations)
	if !ok {
		return nil, false
	}
	children, ok := variations.Property(PropertyChildComponents)
	if !ok {
		return nil, false
	}
	for _, child := range children.Items() {
		if id, ok := child.StringProperty(PropertyID); ok && id == variationID {
			return child, true
		}
	}
	return nil, false
}

// EntityProperty looks a property up across tokens, in order. Each token
// is checked directly first and then through each of its components.
func EntityProperty(tokens []*Node, name string) (*Node, bool) {
	for _, token := range tokens {
		if v, ok := token.Property(name); ok {
			return v, true
		}
		for _, component := range token.Components() {
			if v, ok := component.Property(name); ok {
				return v, true
			}
		}
	}
	return nil, false
}

// EntityValue looks a scalar value up across tokens. Arrays of scalars are
// returned piped; objects and arrays holding objects count as no value.
func EntityValue(tokens []*Node, name string) (string, bool) {
	v, ok := EntityProperty(tokens, name)
	if !ok {
		return "", false
	}
	return scalarValue(v)
}

func scalarValue(v *Node) (string, bool) {
	if s, ok := v.Text(); ok {
		return s, true
	}
	if v.Kind() != NodeArray {
		return "", false
	}
	parts := make([]string, 0, v.Len())
	for _, item := range v.Items() {
		s, ok := item.Text()
		if !ok {
			return "", false
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, pipeSeparator), true
}

// SplitPipedList splits a piped identifier list, dropping empty entries.
func SplitPipedList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, pipeSeparator)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// JoinPiped joins values with the pipe separator.
func JoinPiped(values []string) string {
	return strings.Join(values, pipeSeparator)
}
