package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/fieldmap/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/fieldmap/internal/core/domain"
	"github.com/custodia-labs/fieldmap/internal/core/ports/driven"
)

// policyVariationProperties names the variation property list policy.
const policyVariationProperties = "variation_properties"

// Store is a SQLite catalog store. It hands out the driven ports it
// implements through wrapper types sharing one connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.fieldmap/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".fieldmap", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CatalogRepository returns the catalog repository backed by this store.
func (s *Store) CatalogRepository() driven.CatalogRepository {
	return &catalogRepository{store: s}
}

// SchemaProvider returns the schema provider backed by this store.
func (s *Store) SchemaProvider() driven.SchemaProvider {
	return &schemaProvider{store: s}
}

// migrate applies every .up.sql migration newer than the recorded version.
// Migrations record their own version in schema_migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Import ====================

var _ driven.CatalogImporter = (*Store)(nil)

// Import stores a snapshot in one transaction, replacing entries with the
// same keys. Path mappings of an identifier are replaced as a whole.
func (s *Store) Import(ctx context.Context, snapshot *domain.CatalogSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := importMappings(ctx, tx, snapshot.Mappings); err != nil {
		return err
	}
	if err := importPaths(ctx, tx, snapshot.Paths); err != nil {
		return err
	}
	if err := importEntities(ctx, tx, snapshot.Entities); err != nil {
		return err
	}
	if err := importTemplates(ctx, tx, snapshot.Templates); err != nil {
		return err
	}

	if snapshot.VariationProperties != "" {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO policies (name, value) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET value = excluded.value
		`, policyVariationProperties, snapshot.VariationProperties); err != nil {
			return fmt.Errorf("saving variation properties: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func importMappings(ctx context.Context, tx *sql.Tx, mappings []domain.IDMapping) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO id_mappings (content_key, content_id, entity_id, catalog_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(content_key) DO UPDATE SET
			content_id = excluded.content_id,
			entity_id = excluded.entity_id,
			catalog_name = excluded.catalog_name
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, m := range mappings {
		if _, err := stmt.ExecContext(ctx, domain.NormaliseID(m.ContentID), m.ContentID,
			m.EntityID, nullString(m.CatalogName)); err != nil {
			return fmt.Errorf("saving mapping %s: %w", m.ContentID, err)
		}
	}
	return nil
}

func importPaths(ctx context.Context, tx *sql.Tx, paths []domain.PathMapping) error {
	positions := make(map[string]int)
	for _, p := range paths {
		key := domain.NormaliseID(p.ID)
		position, seen := positions[key]
		if !seen {
			if _, err := tx.ExecContext(ctx, "DELETE FROM path_mappings WHERE id_key = ?", key); err != nil {
				return fmt.Errorf("clearing paths of %s: %w", p.ID, err)
			}
		}

		ancestors := make([]string, 0, len(p.Ancestors))
		for _, a := range p.Ancestors {
			ancestors = append(ancestors, domain.NormaliseID(a))
		}
		ancestorsJSON, err := json.Marshal(ancestors)
		if err != nil {
			return fmt.Errorf("marshalling ancestors: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO path_mappings (id_key, position, path_id, ancestors) VALUES (?, ?, ?, ?)
		`, key, position, p.PathID, string(ancestorsJSON)); err != nil {
			return fmt.Errorf("saving path of %s: %w", p.ID, err)
		}
		positions[key] = position + 1
	}
	return nil
}

func importEntities(ctx context.Context, tx *sql.Tx, entities []domain.EntityVersion) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entities (content_key, version, document) VALUES (?, ?, ?)
		ON CONFLICT(content_key, version) DO UPDATE SET
			document = excluded.document,
			imported_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entities {
		doc, err := json.Marshal(e.Document)
		if err != nil {
			return fmt.Errorf("marshalling entity %s: %w", e.ContentID, err)
		}
		if _, err := stmt.ExecContext(ctx, domain.NormaliseID(e.ContentID), e.Version, string(doc)); err != nil {
			return fmt.Errorf("saving entity %s version %d: %w", e.ContentID, e.Version, err)
		}
	}
	return nil
}

func importTemplates(ctx context.Context, tx *sql.Tx, templates []domain.Schema) error {
	for _, t := range templates {
		key := domain.NormaliseID(t.TemplateID)
		bases, err := json.Marshal(t.BaseTemplates)
		if err != nil {
			return fmt.Errorf("marshalling base templates: %w", err)
		}
		if t.BaseTemplates == nil {
			bases = []byte("[]")
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM template_fields WHERE template_key = ?", key); err != nil {
			return fmt.Errorf("clearing fields of %s: %w", t.TemplateID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO templates (template_key, template_id, name, base_templates) VALUES (?, ?, ?, ?)
			ON CONFLICT(template_key) DO UPDATE SET
				template_id = excluded.template_id,
				name = excluded.name,
				base_templates = excluded.base_templates
		`, key, t.TemplateID, nullString(t.Name), string(bases)); err != nil {
			return fmt.Errorf("saving template %s: %w", t.TemplateID, err)
		}

		for i, f := range t.Fields {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO template_fields (template_key, position, field_id, name, type, is_data_field)
				VALUES (?, ?, ?, ?, ?, ?)
			`, key, i, f.ID, f.Name, f.Type.String(), f.IsDataField); err != nil {
				return fmt.Errorf("saving field %s of %s: %w", f.Name, t.TemplateID, err)
			}
		}
	}
	return nil
}

// ==================== Catalog Repository ====================

// catalogRepository implements driven.CatalogRepository.
type catalogRepository struct {
	store *Store
}

var _ driven.CatalogRepository = (*catalogRepository)(nil)

// EntityIDForContent returns the entity identifier mapped to a content id.
func (r *catalogRepository) EntityIDForContent(ctx context.Context, contentID string) (string, error) {
	var entityID string
	err := r.store.db.QueryRowContext(ctx,
		"SELECT entity_id FROM id_mappings WHERE content_key = ?",
		domain.NormaliseID(contentID),
	).Scan(&entityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("querying entity id: %w", err)
	}
	return entityID, nil
}

// ContentIDForEntity returns the content identifier mapped to an entity id.
func (r *catalogRepository) ContentIDForEntity(ctx context.Context, entityID string) (string, error) {
	var contentID string
	err := r.store.db.QueryRowContext(ctx,
		"SELECT content_id FROM id_mappings WHERE entity_id = ? ORDER BY content_key LIMIT 1",
		entityID,
	).Scan(&contentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("querying content id: %w", err)
	}
	return contentID, nil
}

// Entity returns the document of a content item version.
// A version below 1 selects the latest stored version.
func (r *catalogRepository) Entity(ctx context.Context, contentID string, version int) (*domain.Node, error) {
	key := domain.NormaliseID(contentID)

	var row *sql.Row
	if version < 1 {
		row = r.store.db.QueryRowContext(ctx,
			"SELECT document FROM entities WHERE content_key = ? ORDER BY version DESC LIMIT 1", key)
	} else {
		row = r.store.db.QueryRowContext(ctx,
			"SELECT document FROM entities WHERE content_key = ? AND version = ?", key, version)
	}

	var doc string
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying entity: %w", err)
	}

	node, err := domain.ParseNode([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("decoding entity %s: %w", contentID, err)
	}
	return node, nil
}

// PathIDs returns the path identifiers of id in import order, keeping only
// those with ancestor on their path when it is set.
func (r *catalogRepository) PathIDs(ctx context.Context, id, ancestor string) ([]string, error) {
	key := domain.NormaliseID(id)

	var exists int
	if err := r.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM path_mappings WHERE id_key = ?", key,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("querying paths: %w", err)
	}
	if exists == 0 {
		return nil, domain.ErrNotFound
	}

	query := "SELECT path_id FROM path_mappings WHERE id_key = ?"
	args := []any{key}
	if ancestor != "" {
		query += " AND EXISTS (SELECT 1 FROM json_each(path_mappings.ancestors) WHERE json_each.value = ?)"
		args = append(args, domain.NormaliseID(ancestor))
	}
	query += " ORDER BY position"

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying paths: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0, exists)
	for rows.Next() {
		var pathID string
		if err := rows.Scan(&pathID); err != nil {
			return nil, fmt.Errorf("scanning path: %w", err)
		}
		ids = append(ids, pathID)
	}
	return ids, rows.Err()
}

// CatalogName returns the catalog name of a content item.
func (r *catalogRepository) CatalogName(ctx context.Context, contentID string) (string, error) {
	var name sql.NullString
	err := r.store.db.QueryRowContext(ctx,
		"SELECT catalog_name FROM id_mappings WHERE content_key = ?",
		domain.NormaliseID(contentID),
	).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("querying catalog name: %w", err)
	}
	if !name.Valid || name.String == "" {
		return "", domain.ErrNotFound
	}
	return name.String, nil
}

// VariationProperties returns the variation property list policy.
func (r *catalogRepository) VariationProperties(ctx context.Context) (string, error) {
	var value string
	err := r.store.db.QueryRowContext(ctx,
		"SELECT value FROM policies WHERE name = ?", policyVariationProperties,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("querying variation properties: %w", err)
	}
	return value, nil
}

// ==================== Schema Provider ====================

// schemaProvider implements driven.SchemaProvider.
type schemaProvider struct {
	store *Store
}

var _ driven.SchemaProvider = (*schemaProvider)(nil)

// GetSchema returns a template with its fields in declaration order.
func (p *schemaProvider) GetSchema(ctx context.Context, templateID string) (*domain.Schema, error) {
	key := domain.NormaliseID(templateID)

	var schema domain.Schema
	var name sql.NullString
	var basesJSON string
	err := p.store.db.QueryRowContext(ctx,
		"SELECT template_id, name, base_templates FROM templates WHERE template_key = ?", key,
	).Scan(&schema.TemplateID, &name, &basesJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying template: %w", err)
	}
	schema.Name = name.String
	if err := json.Unmarshal([]byte(basesJSON), &schema.BaseTemplates); err != nil {
		return nil, fmt.Errorf("unmarshaling base templates: %w", err)
	}

	rows, err := p.store.db.QueryContext(ctx, `
		SELECT field_id, name, type, is_data_field
		FROM template_fields WHERE template_key = ? ORDER BY position
	`, key)
	if err != nil {
		return nil, fmt.Errorf("querying fields: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var field domain.SchemaField
		var fieldType string
		if err := rows.Scan(&field.ID, &field.Name, &fieldType, &field.IsDataField); err != nil {
			return nil, fmt.Errorf("scanning field: %w", err)
		}
		field.Type = domain.ParseFieldType(fieldType)
		schema.Fields = append(schema.Fields, field)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fields: %w", err)
	}

	return &schema, nil
}

// nullString converts empty strings to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
