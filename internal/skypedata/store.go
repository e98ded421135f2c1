// Package skypedata implements the typed accessor over a Skype chat-history
// SQLite file: schema creation on the exact native DDL, conversation and
// message queries, the row cache, the delete cascade, and the shared-file
// store. Modeled on the teacher's Store-over-*sql.DB shape.
package skypedata

import (
	"database/sql"
	"fmt"
	"sort"
	"sync"

	_ "modernc.org/sqlite"
)

// Store wraps a Skype-schema SQLite database, adding a row cache, the
// delete-cascade graph, and the extension tables this repo adds on top of
// the native schema.
type Store struct {
	db    *sql.DB
	cache rowCache
}

// Open opens (or creates) the database at path and ensures both the native
// Skype schema and the extension tables exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("skypedata: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("skypedata: ping %s: %w", path, err)
	}
	s := &Store{db: db, cache: newRowCache()}
	if err := s.EnsureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.EnsureInternalSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle for callers (importer, mergediff) that
// need direct transactional access.
func (s *Store) DB() *sql.DB { return s.db }

// EnsureSchema creates any native Skype table that does not already exist,
// using the bit-for-bit DDL in CreateStatements.
func (s *Store) EnsureSchema() error {
	return s.ensureTables(CreateStatements)
}

// EnsureInternalSchema creates this repo's extension tables
// (_options_, _shared_files_).
func (s *Store) EnsureInternalSchema() error {
	return s.ensureTables(InternalCreateStatements)
}

func (s *Store) ensureTables(statements map[string]string) error {
	existing, err := s.tableSet()
	if err != nil {
		return err
	}
	// Deterministic order keeps schema creation reproducible across runs.
	names := make([]string, 0, len(statements))
	for name := range statements {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if existing[name] {
			continue
		}
		if _, err := s.db.Exec(statements[name]); err != nil {
			return fmt.Errorf("skypedata: create table %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) tableSet() (map[string]bool, error) {
	rows, err := s.db.Query(`SELECT lower(name) FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, fmt.Errorf("skypedata: list tables: %w", err)
	}
	defer rows.Close()
	set := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		set[name] = true
	}
	return set, rows.Err()
}

// GetTables probes sqlite_master for the table list, degrading to an empty
// slice (rather than erroring the caller's UI) on failure.
func (s *Store) GetTables() []string {
	set, err := s.tableSet()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTableColumns probes PRAGMA table_info(table), degrading to nil on
// error or unknown table.
func (s *Store) GetTableColumns(table string) []string {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil
	}
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil
		}
		cols = append(cols, name)
	}
	return cols
}

// rowCache memoizes freshly-read rows per table, invalidated explicitly via
// ClearCacheRows — the sole invalidation primitive, which evicts either
// the given rows or, with no row ids, the whole table.
type rowCache struct {
	mu   sync.Mutex
	rows map[string]map[int64]any
}

func newRowCache() rowCache {
	return rowCache{rows: map[string]map[int64]any{}}
}

func (c *rowCache) get(table string, id int64) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tbl, ok := c.rows[table]
	if !ok {
		return nil, false
	}
	v, ok := tbl[id]
	return v, ok
}

func (c *rowCache) put(table string, id int64, row any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tbl, ok := c.rows[table]
	if !ok {
		tbl = map[int64]any{}
		c.rows[table] = tbl
	}
	tbl[id] = row
}

// ClearCacheRows invalidates specific cached rows of table, or the whole
// table's cache if no ids are given.
func (s *Store) ClearCacheRows(table string, ids ...int64) {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	if len(ids) == 0 {
		delete(s.cache.rows, table)
		return
	}
	tbl := s.cache.rows[table]
	for _, id := range ids {
		delete(tbl, id)
	}
}
