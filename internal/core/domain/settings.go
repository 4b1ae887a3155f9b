package domain

import (
	"errors"
	"fmt"
)

// DefaultReadACL grants read access to everyone.
const DefaultReadACL = "ar|Everyone|pe|+item:read|pd|+item:read|"

// DefaultOwner is the provider name items must carry to be mapped.
const DefaultOwner = "commerce"

// KnownTemplates holds the template ids the mapping treats specially.
type KnownTemplates struct {
	// CatalogFolder is the grouping template managed natively by the repository.
	CatalogFolder string

	// NavigationItem is the navigation template managed natively by the repository.
	NavigationItem string

	// SellableItemVariant marks items that represent a variation child.
	SellableItemVariant string

	// ProductVariant is the variant template whose items carry no workflow.
	ProductVariant string
}

// IsStructural returns true for templates whose fields the repository
// manages itself.
func (t KnownTemplates) IsStructural(templateID string) bool {
	return (t.CatalogFolder != "" && SameID(templateID, t.CatalogFolder)) ||
		(t.NavigationItem != "" && SameID(templateID, t.NavigationItem))
}

// StandardFields holds the ids of repository system fields the mapping
// writes on every record.
type StandardFields struct {
	DisplayName     string
	Created         string
	Updated         string
	CreatedBy       string
	UpdatedBy       string
	Security        string
	Workflow        string
	DefaultWorkflow string
	WorkflowState   string
}

// Well-known schema field names with dedicated rules.
const (
	FieldVariationProperties      = "VariationProperties"
	FieldAreaServed               = "AreaServed"
	FieldChildrenCategoryList     = "ChildrenCategoryList"
	FieldChildrenSellableItemList = "ChildrenSellableItemList"
	FieldParentCatalogList        = "ParentCatalogList"
	FieldParentCategoryList       = "ParentCategoryList"
	FieldItemDefinitions          = "ItemDefinitions"
)

// LogSettings configures diagnostics output.
type LogSettings struct {
	// Level is one of debug, info, warn, error.
	Level string

	// Format is console or json.
	Format string
}

// StorageSettings locates the catalog database.
type StorageSettings struct {
	// DataDir holds catalog.db. Empty means ~/.fieldmap/data.
	DataDir string
}

// MappingSettings holds the configuration of the mapping service.
type MappingSettings struct {
	// Owner is the provider name of items this mapping handles.
	Owner string

	// DefaultLanguage is used when a caller does not name one.
	DefaultLanguage string

	// Security is the ACL written to every record.
	Security string

	Templates KnownTemplates
	Fields    StandardFields
	Log       LogSettings
	Storage   StorageSettings
}

// DefaultMappingSettings returns the default configuration.
func DefaultMappingSettings() MappingSettings {
	return MappingSettings{
		Owner:           DefaultOwner,
		DefaultLanguage: "en",
		Security:        DefaultReadACL,
		Templates: KnownTemplates{
			CatalogFolder:       "catalog-folder",
			NavigationItem:      "navigation-item",
			SellableItemVariant: "sellable-item-variant",
			ProductVariant:      "commerce-product-variant",
		},
		Fields: StandardFields{
			DisplayName:     "{B5E02AD9-D56F-4C41-A065-A133DB87BDEB}",
			Created:         "{25BED78C-4957-4165-998A-CA1B52F67497}",
			Updated:         "{D9CF14B1-FA16-4BA6-9288-E8A174D4D522}",
			CreatedBy:       "{5DD74568-4D4B-44C1-B513-0AF5F4CDA34F}",
			UpdatedBy:       "{BADD9CF9-53E0-4D0C-BCC0-2D784C282F6A}",
			Security:        "{DEC8D2D5-E3CF-48B6-A653-8E69E2716641}",
			Workflow:        "{A4F985D9-98B3-4B52-AAAF-4344F6E747C6}",
			DefaultWorkflow: "{CA9B9F52-4FB0-4F87-A79F-24DEA62CDA65}",
			WorkflowState:   "{3E431DE1-525E-47A3-B6B0-1CCBEC3A8C98}",
		},
		Log: LogSettings{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks that every required setting is present.
func (s MappingSettings) Validate() error {
	var errs []error
	if s.Owner == "" {
		errs = append(errs, errors.New("owner is required"))
	}
	if s.DefaultLanguage == "" {
		errs = append(errs, errors.New("default language is required"))
	}
	required := []struct {
		name string
		id   string
	}{
		{"display_name", s.Fields.DisplayName},
		{"created", s.Fields.Created},
		{"updated", s.Fields.Updated},
		{"created_by", s.Fields.CreatedBy},
		{"updated_by", s.Fields.UpdatedBy},
		{"security", s.Fields.Security},
		{"workflow", s.Fields.Workflow},
		{"default_workflow", s.Fields.DefaultWorkflow},
		{"workflow_state", s.Fields.WorkflowState},
	}
	for _, f := range required {
		if f.id == "" {
			errs = append(errs, fmt.Errorf("field id %s is required", f.name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
