package driven

import (
	"context"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
)

// SchemaProvider supplies template schemas.
type SchemaProvider interface {
	// GetSchema returns the ordered field list of a template.
	// Returns domain.ErrNotFound if the template is unknown.
	GetSchema(ctx context.Context, templateID string) (*domain.Schema, error)
}
