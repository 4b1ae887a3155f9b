package mcp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
	"github.com/custodia-labs/fieldmap/internal/core/ports/driving"
)

// MapItemInput is the input schema for the map_item tool.
type MapItemInput struct {
	ContentID  string `json:"content_id" jsonschema:"content id of the item to map"`
	TemplateID string `json:"template_id" jsonschema:"template id of the item"`
	Owner      string `json:"owner,omitempty" jsonschema:"owning provider (defaults to the configured owner)"`
	Language   string `json:"language,omitempty" jsonschema:"item language (defaults to the configured language)"`
	Version    int    `json:"version,omitempty" jsonschema:"entity version (0 or omitted = latest)"`
}

// MapItemOutput is the output schema for the map_item tool.
type MapItemOutput struct {
	ContentID string              `json:"content_id"`
	Status    string              `json:"status"`
	Reason    string              `json:"reason,omitempty"`
	Fields    []domain.FieldValue `json:"fields,omitempty"`
	Count     int                 `json:"count"`
}

// GetSchemaInput is the input schema for the get_schema tool.
type GetSchemaInput struct {
	TemplateID string `json:"template_id" jsonschema:"template id to describe"`
}

// GetSchemaOutput is the output schema for the get_schema tool.
type GetSchemaOutput struct {
	TemplateID    string               `json:"template_id"`
	Name          string               `json:"name,omitempty"`
	BaseTemplates []string             `json:"base_templates,omitempty"`
	Fields        []domain.SchemaField `json:"fields"`
}

// DescribeItemInput is the input schema for the describe_item tool.
type DescribeItemInput struct {
	ContentID string `json:"content_id" jsonschema:"content id to resolve"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "map_item",
		Description: "Map a catalog item onto the fields of its content template",
	}, s.handleMapItem)

	if s.ports.Catalog == nil {
		return
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_schema",
		Description: "List the fields of a content template",
	}, s.handleGetSchema)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "describe_item",
		Description: "Resolve a content id to its catalog entity id",
	}, s.handleDescribeItem)
}

// handleMapItem handles the map_item tool invocation.
// Not-applicable and failed items are results, not tool errors.
func (s *Server) handleMapItem(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MapItemInput,
) (*mcp.CallToolResult, MapItemOutput, error) {
	if input.ContentID == "" || input.TemplateID == "" {
		return nil, MapItemOutput{}, fmt.Errorf("%w: content_id and template_id are required", domain.ErrInvalidInput)
	}

	settings := s.ports.settings()
	item := domain.ItemDescriptor{
		ID:         input.ContentID,
		TemplateID: input.TemplateID,
		Owner:      input.Owner,
	}
	if item.Owner == "" {
		item.Owner = settings.Owner
	}
	version := domain.VersionDescriptor{Language: input.Language, Number: input.Version}
	if version.Language == "" {
		version.Language = settings.DefaultLanguage
	}

	log := s.ports.Log.With("request_id", uuid.NewString())
	log.Debug("map_item %s (template %s, %s v%d)", item.ID, item.TemplateID, version.Language, version.Number)

	result := s.ports.Mapping.Map(ctx, item, version)

	output := MapItemOutput{
		ContentID: item.ID,
		Status:    result.Status.String(),
	}
	if result.Err != nil {
		output.Reason = result.Err.Error()
	}
	if result.Status == domain.StatusMapped {
		output.Fields = result.Record.Entries()
		output.Count = len(output.Fields)
	}

	log.Debug("map_item %s: %s, %d fields", item.ID, output.Status, output.Count)
	return nil, output, nil
}

// handleGetSchema handles the get_schema tool invocation.
func (s *Server) handleGetSchema(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetSchemaInput,
) (*mcp.CallToolResult, GetSchemaOutput, error) {
	schema, err := s.ports.Catalog.Schema(ctx, input.TemplateID)
	if err != nil {
		return nil, GetSchemaOutput{}, err
	}

	return nil, GetSchemaOutput{
		TemplateID:    schema.TemplateID,
		Name:          schema.Name,
		BaseTemplates: schema.BaseTemplates,
		Fields:        schema.Fields,
	}, nil
}

// handleDescribeItem handles the describe_item tool invocation.
func (s *Server) handleDescribeItem(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DescribeItemInput,
) (*mcp.CallToolResult, driving.ItemInfo, error) {
	info, err := s.ports.Catalog.Describe(ctx, input.ContentID)
	if err != nil {
		return nil, driving.ItemInfo{}, err
	}
	return nil, *info, nil
}
