package image

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ---------------------------------------------------------------------------
// Catalog: SQLite-backed index of written snapshots
// ---------------------------------------------------------------------------

// ErrSnapshotNotFound reports a catalog lookup for an unknown snapshot id.
var ErrSnapshotNotFound = errors.New("image: snapshot not found in catalog")

// Catalog records written snapshots in a SQLite database so long-running
// sessions can list and reopen them without scanning the filesystem.
type Catalog struct {
	db *sql.DB
}

// CatalogEntry describes one recorded snapshot.
type CatalogEntry struct {
	SnapshotID  string
	Path        string
	CreatedAt   time.Time
	ObjectCount uint32
}

const catalogSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	snapshot_id  TEXT PRIMARY KEY,
	path         TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	object_count INTEGER NOT NULL
);
`

// OpenCatalog opens (creating if needed) a snapshot catalog at path.
// Use ":memory:" for an ephemeral catalog.
func OpenCatalog(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("image: open catalog: %w", err)
	}
	if _, err := db.Exec(catalogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("image: init catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close releases the catalog's database handle.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record inserts or replaces a snapshot entry.
func (c *Catalog) Record(e CatalogEntry) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO snapshots (snapshot_id, path, created_at, object_count) VALUES (?, ?, ?, ?)`,
		e.SnapshotID, e.Path, e.CreatedAt.UTC().Format(time.RFC3339Nano), e.ObjectCount,
	)
	if err != nil {
		return fmt.Errorf("image: record snapshot: %w", err)
	}
	return nil
}

// RecordManifest records a written snapshot from its manifest.
func (c *Catalog) RecordManifest(m *Manifest, path string) error {
	return c.Record(CatalogEntry{
		SnapshotID:  m.SnapshotID,
		Path:        path,
		CreatedAt:   m.CreatedAt,
		ObjectCount: m.ObjectCount,
	})
}

// Get returns the entry for a snapshot id.
func (c *Catalog) Get(id string) (*CatalogEntry, error) {
	row := c.db.QueryRow(
		`SELECT snapshot_id, path, created_at, object_count FROM snapshots WHERE snapshot_id = ?`, id,
	)
	e, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("image: get snapshot: %w", err)
	}
	return e, nil
}

// List returns all recorded snapshots, newest first.
func (c *Catalog) List() ([]CatalogEntry, error) {
	rows, err := c.db.Query(
		`SELECT snapshot_id, path, created_at, object_count FROM snapshots ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("image: list snapshots: %w", err)
	}
	defer rows.Close()

	var entries []CatalogEntry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("image: list snapshots: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("image: list snapshots: %w", err)
	}
	return entries, nil
}

// Remove deletes a snapshot entry. Removing an unknown id is not an error.
func (c *Catalog) Remove(id string) error {
	if _, err := c.db.Exec(`DELETE FROM snapshots WHERE snapshot_id = ?`, id); err != nil {
		return fmt.Errorf("image: remove snapshot: %w", err)
	}
	return nil
}

func scanEntry(scan func(dest ...any) error) (*CatalogEntry, error) {
	var e CatalogEntry
	var created string
	if err := scan(&e.SnapshotID, &e.Path, &created, &e.ObjectCount); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = t
	return &e, nil
}
