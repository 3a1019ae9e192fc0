package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/quill-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is a SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.quill/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".quill", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "quill.db")

	// WAL mode lets readers proceed while a pipeline run writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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

// Database returns the named logical database.
func (s *Store) Database(name string) driven.Database {
	return &database{store: s, name: name}
}

// Databases lists logical databases holding at least one record.
func (s *Store) Databases(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT db_name FROM records ORDER BY db_name`)
	if err != nil {
		return nil, fmt.Errorf("listing databases: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning database name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// migrate applies every .up.sql migration newer than the recorded version.
func (s *Store) migrate(fsys embed.FS) error {
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
		// "001_initial.up.sql" -> 1
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
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// database implements driven.Database over the shared records table.
type database struct {
	store *Store
	name  string
}

var _ driven.Database = (*database)(nil)

func (d *database) Name() string {
	return d.name
}

// InsertOne stores record and returns its generated id.
func (d *database) InsertOne(ctx context.Context, collection string, record driven.Record) (string, error) {
	ids, err := d.InsertMany(ctx, collection, []driven.Record{record})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// InsertMany stores records in one transaction.
func (d *database) InsertMany(ctx context.Context, collection string, records []driven.Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}

	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit.

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (id, db_name, collection, body) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, 0, len(records))
	for _, r := range records {
		id := uuid.NewString()
		body, err := json.Marshal(withoutID(r))
		if err != nil {
			return nil, fmt.Errorf("marshalling record: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, id, d.name, collection, string(body)); err != nil {
			return nil, fmt.Errorf("inserting into %s.%s: %w", d.name, collection, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing insert: %w", err)
	}
	return ids, nil
}

// Find returns records of collection matching filter, in insertion order.
func (d *database) Find(ctx context.Context, collection string, filter driven.Filter) ([]driven.Record, error) {
	rows, err := d.store.db.QueryContext(ctx,
		`SELECT id, body FROM records WHERE db_name = ? AND collection = ? ORDER BY seq`,
		d.name, collection)
	if err != nil {
		return nil, fmt.Errorf("querying %s.%s: %w", d.name, collection, err)
	}
	defer rows.Close()

	var out []driven.Record
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		var r driven.Record
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			return nil, fmt.Errorf("unmarshalling record %s: %w", id, err)
		}
		if r == nil {
			r = driven.Record{}
		}
		r[driven.FieldID] = id
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	return out, rows.Err()
}

func withoutID(r driven.Record) driven.Record {
	if _, ok := r[driven.FieldID]; !ok {
		return r
	}
	out := make(driven.Record, len(r))
	for k, v := range r {
		if k != driven.FieldID {
			out[k] = v
		}
	}
	return out
}
