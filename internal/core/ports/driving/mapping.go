package driving

import (
	"context"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
)

// MappingService maps catalog entity documents onto flat field records.
type MappingService interface {
	// Map produces the field record of a content item version.
	// It never returns an error: failures are reported through the
	// result status so that callers can skip the item and carry on.
	Map(ctx context.Context, item domain.ItemDescriptor, version domain.VersionDescriptor) domain.MapResult
}
