// Package persist caches completed sweep results in a SQLite database,
// keyed by a fingerprint of the circuit topology and sweep config, so an
// interactive embedder can re-run an unchanged sweep for free (spec
// SPEC_FULL.md S.2). Grounded on bfix-antgen's lib/database.go
// Open/Insert/Set pattern, generalized from antenna performance rows to
// S-parameter sweep rows.
package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"rfcore/pkg/sweep"
)

const schema = `
create table if not exists sweep_cache (
	fingerprint text primary key,
	created_at  integer not null,
	payload     blob not null
);
`

// Cache wraps a SQLite-backed result store. The zero value is not usable;
// construct with Open.
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("persist: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("persist: initializing schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Put stores a sweep result under the given fingerprint, replacing any
// prior entry.
func (c *Cache) Put(fingerprint string, createdAtUnix int64, result *sweep.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("persist: marshaling result: %w", err)
	}
	_, err = c.db.Exec(
		"replace into sweep_cache(fingerprint, created_at, payload) values (?, ?, ?)",
		fingerprint, createdAtUnix, payload,
	)
	return err
}

// Get retrieves a cached sweep result by fingerprint. ok is false if no
// entry is present.
func (c *Cache) Get(fingerprint string) (result *sweep.Result, ok bool, err error) {
	row := c.db.QueryRow("select payload from sweep_cache where fingerprint = ?", fingerprint)
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	result = new(sweep.Result)
	if err := json.Unmarshal(payload, result); err != nil {
		return nil, false, fmt.Errorf("persist: unmarshaling cached result: %w", err)
	}
	return result, true, nil
}

// Invalidate removes a cached entry, used when the circuit or config it
// was keyed on has changed.
func (c *Cache) Invalidate(fingerprint string) error {
	_, err := c.db.Exec("delete from sweep_cache where fingerprint = ?", fingerprint)
	return err
}
