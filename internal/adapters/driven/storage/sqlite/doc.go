// Package sqlite provides the SQLite-backed catalog repository.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. A single Store serves several driven ports over one connection:
//
//   - CatalogRepository: identifier and path mappings, entity documents by version
//   - SchemaProvider: template field lists
//   - CatalogImporter: loading catalog snapshots
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.fieldmap/data/catalog.db
//
// # Thread Safety
//
// Reads are safe for concurrent use. SQLite runs in WAL mode so imports do not
// block readers.
package sqlite
