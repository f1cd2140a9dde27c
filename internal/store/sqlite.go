// Package store provides a local SQLite cache of PubChem synonym
// lookups so long enrichment runs do not repeat calls for CAS numbers
// already fetched. The cache is explicit state passed by the caller,
// never process-global.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SynonymCache caches PubChem synonym responses keyed by CAS Registry
// Number. A stored empty synonym list is a valid entry: it records
// that PubChem has no registration for that CAS.
type SynonymCache struct {
	db *sql.DB
}

// OpenSynonymCache opens (creating if needed) the cache database at
// path and configures WAL mode.
func OpenSynonymCache(path string) (*SynonymCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, eris.Wrapf(err, "store: create cache dir for %s", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open cache")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}

	c := &SynonymCache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

const cacheMigration = `
CREATE TABLE IF NOT EXISTS pubchem_synonyms (
	cas_rn     TEXT PRIMARY KEY,
	synonyms   TEXT NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (c *SynonymCache) migrate() error {
	_, err := c.db.Exec(cacheMigration)
	return eris.Wrap(err, "store: migrate cache")
}

// Close closes the underlying database.
func (c *SynonymCache) Close() error {
	return c.db.Close()
}

// Get returns the cached synonym list for casRN. ok is false on a
// cache miss.
func (c *SynonymCache) Get(ctx context.Context, casRN string) (synonyms []string, ok bool, err error) {
	var raw string
	row := c.db.QueryRowContext(ctx,
		`SELECT synonyms FROM pubchem_synonyms WHERE cas_rn = ?`, casRN)
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, eris.Wrapf(err, "store: get %s", casRN)
	}

	if err := json.Unmarshal([]byte(raw), &synonyms); err != nil {
		return nil, false, eris.Wrapf(err, "store: decode cached synonyms for %s", casRN)
	}
	return synonyms, true, nil
}

// Put stores the synonym list for casRN, replacing any prior entry.
func (c *SynonymCache) Put(ctx context.Context, casRN string, synonyms []string) error {
	if synonyms == nil {
		synonyms = []string{}
	}
	raw, err := json.Marshal(synonyms)
	if err != nil {
		return eris.Wrapf(err, "store: encode synonyms for %s", casRN)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO pubchem_synonyms (cas_rn, synonyms, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT (cas_rn) DO UPDATE SET
			synonyms = excluded.synonyms,
			fetched_at = excluded.fetched_at`,
		casRN, string(raw), time.Now().UTC(),
	)
	return eris.Wrapf(err, "store: put %s", casRN)
}
