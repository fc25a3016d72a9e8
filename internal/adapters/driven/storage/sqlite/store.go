package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/seamwork/drafter/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/ports/driven"
)

// Store is a SQLite database holding the drafting library.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.drafter/data/library.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".drafter", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "library.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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

// LibraryStore returns a LibraryStore interface backed by this store.
func (s *Store) LibraryStore() driven.LibraryStore {
	return &libraryStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
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

// ==================== Library Store ====================

// libraryStore implements driven.LibraryStore.
type libraryStore struct {
	store *Store
}

var _ driven.LibraryStore = (*libraryStore)(nil)

// SaveRevision stores a new revision and touches its drafting.
func (s *libraryStore) SaveRevision(ctx context.Context, rev *domain.Revision) error {
	if rev.ID == "" || rev.DraftingID == "" {
		return fmt.Errorf("%w: revision and drafting ids are required", domain.ErrInvalidInput)
	}
	createdAt := rev.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM revisions WHERE id = ?", rev.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking revision: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("revision %s: %w", rev.ID, domain.ErrAlreadyExists)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO draftings (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at
	`, rev.DraftingID, rev.Name, createdAt, createdAt)
	if err != nil {
		return fmt.Errorf("saving drafting: %w", err)
	}

	content := rev.Content
	if content == nil {
		content = []byte{}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO revisions (id, drafting_id, name, message, operations, entities, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rev.ID, rev.DraftingID, rev.Name, rev.Message, rev.Operations, rev.Entities, content, createdAt)
	if err != nil {
		return fmt.Errorf("saving revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing revision: %w", err)
	}
	return nil
}

const revisionColumns = `id, drafting_id, name, message, operations, entities, content, created_at`

// GetRevision retrieves a revision by ID.
func (s *libraryStore) GetRevision(ctx context.Context, id string) (*domain.Revision, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+revisionColumns+" FROM revisions WHERE id = ?", id)
	return scanRevision(row)
}

// LatestRevision retrieves the newest revision of a drafting.
func (s *libraryStore) LatestRevision(ctx context.Context, draftingID string) (*domain.Revision, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+revisionColumns+" FROM revisions WHERE drafting_id = ? ORDER BY seq DESC LIMIT 1", draftingID)
	return scanRevision(row)
}

func scanRevision(row *sql.Row) (*domain.Revision, error) {
	var rev domain.Revision
	var createdAt sql.NullTime
	if err := row.Scan(&rev.ID, &rev.DraftingID, &rev.Name, &rev.Message,
		&rev.Operations, &rev.Entities, &rev.Content, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning revision: %w", err)
	}
	if createdAt.Valid {
		rev.CreatedAt = createdAt.Time
	}
	return &rev, nil
}

// ListDraftings returns every drafting with at least one revision,
// most recently updated first.
func (s *libraryStore) ListDraftings(ctx context.Context) ([]domain.DraftingSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT d.id, d.name, COUNT(r.seq), d.updated_at
		FROM draftings d
		JOIN revisions r ON r.drafting_id = d.id
		GROUP BY d.id
		ORDER BY d.updated_at DESC, d.id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying draftings: %w", err)
	}
	defer rows.Close()

	var out []domain.DraftingSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		var summary domain.DraftingSummary
		var updatedAt sql.NullTime
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Revisions, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning drafting: %w", err)
		}
		if updatedAt.Valid {
			summary.UpdatedAt = updatedAt.Time
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating draftings: %w", err)
	}
	return out, nil
}

// ListRevisions returns a drafting's revisions, newest first, without content.
func (s *libraryStore) ListRevisions(ctx context.Context, draftingID string) ([]domain.Revision, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, drafting_id, name, message, operations, entities, created_at
		FROM revisions WHERE drafting_id = ?
		ORDER BY seq DESC
	`, draftingID)
	if err != nil {
		return nil, fmt.Errorf("querying revisions: %w", err)
	}
	defer rows.Close()

	var out []domain.Revision //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rev domain.Revision
		var createdAt sql.NullTime
		if err := rows.Scan(&rev.ID, &rev.DraftingID, &rev.Name, &rev.Message,
			&rev.Operations, &rev.Entities, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning revision: %w", err)
		}
		if createdAt.Valid {
			rev.CreatedAt = createdAt.Time
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating revisions: %w", err)
	}
	return out, nil
}

// DeleteDrafting removes a drafting and all its revisions.
func (s *libraryStore) DeleteDrafting(ctx context.Context, draftingID string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM revisions WHERE drafting_id = ?", draftingID); err != nil {
		return fmt.Errorf("deleting revisions: %w", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM draftings WHERE id = ?", draftingID)
	if err != nil {
		return fmt.Errorf("deleting drafting: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting drafting: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}
