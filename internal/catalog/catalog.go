// Package catalog implements the SQLite contract catalog for stubforge.
// The catalog persists contract descriptors only; synthesized stub types
// are in-process values and never touch storage.
package catalog

import (
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/stubforge/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// dbFileName is the SQLite database file created under DataDir.
const dbFileName = "forge.db"

// Store implements types.Catalog using SQLite as the document store.
type Store struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// NewStore creates a new SQLite catalog instance.
// The store is not attached; call Attach with a Config to initialize.
func NewStore() *Store {
	return &Store{}
}

// Attach initializes the catalog with the given configuration. Creates
// DataDir if it does not exist and applies the schema. Unlike scratch
// stores, the database file is kept between runs so contracts added in one
// invocation are visible to the next.
// Returns ErrAlreadyAttached if already attached.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return errors.Wrap(err, "create data directory")
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return errors.Wrap(err, "open catalog database")
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return errors.Wrap(err, "apply catalog schema")
	}

	s.db = db
	s.config = config
	s.attached = true
	return nil
}

// Detach releases the database handle. Idempotent: detaching a detached
// store succeeds.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.attached = false
	if err != nil {
		return errors.Wrap(err, "close catalog database")
	}
	return nil
}

// Save stores or replaces the contract under its name.
func (s *Store) Save(c *types.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrCatalogDetached
	}
	if err := c.Validate(); err != nil {
		return errors.WithSecondaryError(types.ErrInvalidContract, err)
	}

	doc, err := encodeContract(c)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(`
		INSERT INTO contracts (name, document, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET document = excluded.document,
		                                updated_at = excluded.updated_at`,
		c.Name, doc, now, now)
	if err != nil {
		return errors.Wrapf(err, "save contract %q", c.Name)
	}
	return nil
}

// Get loads the contract with the given name, re-resolving embedded and
// interface-typed member references against the catalog. The whole
// referenced graph is loaded; cyclic references resolve to shared pointers.
func (s *Store) Get(name string) (*types.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrCatalogDetached
	}
	return s.load(name, make(map[string]*types.Contract))
}

// List returns the names of all stored contracts in sorted order.
func (s *Store) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrCatalogDetached
	}

	rows, err := s.db.Query(`SELECT name FROM contracts ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "list contracts")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scan contract name")
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes the contract with the given name.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrCatalogDetached
	}

	res, err := s.db.Exec(`DELETE FROM contracts WHERE name = ?`, name)
	if err != nil {
		return errors.Wrapf(err, "delete contract %q", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return types.ErrContractNotFound
	}
	return nil
}

// load fetches one contract document and resolves its references. The cache
// holds contracts already under construction, so cyclic graphs terminate
// and every reference to a name resolves to the same pointer.
func (s *Store) load(name string, cache map[string]*types.Contract) (*types.Contract, error) {
	if c, ok := cache[name]; ok {
		return c, nil
	}

	var doc string
	err := s.db.QueryRow(`SELECT document FROM contracts WHERE name = ?`, name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(types.ErrContractNotFound, "contract %q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load contract %q", name)
	}

	return decodeContract(name, doc, cache, s.load)
}
