// Package domain defines the core business entities for fieldmap.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Node: A navigable view over a commerce entity document
//   - Schema / SchemaField: The flat, typed target field list of a template
//   - FieldRecord: The ordered field-id to value record produced by a mapping
//   - ItemDescriptor / VersionDescriptor: What is being mapped
//   - MapResult: The outcome of one mapping call
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
