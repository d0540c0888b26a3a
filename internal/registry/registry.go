// Package registry persists the set of module namespaces a project has
// declared (spec §6 "module namespace registration") across driver runs,
// so the driver can report MissingModule-adjacent conflicts — two files
// declaring the same namespace — without re-parsing every file in the
// project on every invocation.
package registry

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Registry wraps a SQLite-backed table of (namespace, file path) pairs.
type Registry struct {
	db *sql.DB
}

// Open creates or opens the registry database at path (use ":memory:"
// for a throwaway registry, e.g. in tests).
func Open(path string) (*Registry, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("registry: open %s: %w", path, err)
	}
	r := &Registry{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Registry) migrate() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS modules (
			namespace TEXT PRIMARY KEY,
			file_path TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("registry: migrate: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (r *Registry) Close() error { return r.db.Close() }

// Register records that namespace is declared by filePath. It returns
// the path that already owns the namespace, if one does — the caller
// decides whether that is an error (re-running on the same file is not;
// two distinct files claiming the same namespace is).
func (r *Registry) Register(namespace, filePath string) (existing string, conflict bool, err error) {
	row := r.db.QueryRow(`SELECT file_path FROM modules WHERE namespace = ?`, namespace)
	var owner string
	scanErr := row.Scan(&owner)
	if scanErr == nil {
		if owner == filePath {
			return owner, false, nil
		}
		return owner, true, nil
	}
	if scanErr != sql.ErrNoRows {
		return "", false, fmt.Errorf("registry: lookup %s: %w", namespace, scanErr)
	}

	_, err = r.db.Exec(`INSERT INTO modules (namespace, file_path) VALUES (?, ?)`, namespace, filePath)
	if err != nil {
		return "", false, fmt.Errorf("registry: insert %s: %w", namespace, err)
	}
	return "", false, nil
}

// Lookup returns the file path registered for namespace, if any.
func (r *Registry) Lookup(namespace string) (filePath string, found bool, err error) {
	row := r.db.QueryRow(`SELECT file_path FROM modules WHERE namespace = ?`, namespace)
	scanErr := row.Scan(&filePath)
	if scanErr == sql.ErrNoRows {
		return "", false, nil
	}
	if scanErr != nil {
		return "", false, fmt.Errorf("registry: lookup %s: %w", namespace, scanErr)
	}
	return filePath, true, nil
}

// Forget removes a namespace's registration, used when a source file is
// deleted or renamed between driver runs.
func (r *Registry) Forget(namespace string) error {
	_, err := r.db.Exec(`DELETE FROM modules WHERE namespace = ?`, namespace)
	if err != nil {
		return fmt.Errorf("registry: forget %s: %w", namespace, err)
	}
	return nil
}
