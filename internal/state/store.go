// Package state persists reel's client-local state in SQLite: the reference
// inbox (names delivered out of band, waiting to be merged into a profile)
// and the sticky per-profile asset selection.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"reel/internal/config"
	"reel/internal/refset"
)

// Store manages local state backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the state database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.StateDir, "reel.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// InboxEntry is a reference name waiting to be merged into a profile.
type InboxEntry struct {
	ID         string
	ProfileID  string
	Name       string
	ReceivedAt time.Time
}

// EnqueueReferences records reference names for later merging. Names are
// sanitized before insertion; re-delivering a name already queued for the
// profile is a no-op. Returns the number of names actually queued.
func (s *Store) EnqueueReferences(ctx context.Context, profileID string, names []string) (int, error) {
	if profileID == "" {
		return 0, errors.New("profile id is empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin enqueue tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	queued := 0
	for _, name := range names {
		sanitized := refset.Sanitize(name)
		if sanitized == "" {
			continue
		}
		res, err := tx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO reference_inbox (id, profile_id, name, received_at) VALUES (?, ?, ?, ?)`,
			uuid.NewString(),
			profileID,
			sanitized,
			timestamp,
		)
		if err != nil {
			return 0, fmt.Errorf("enqueue reference %q: %w", sanitized, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		queued += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit enqueue: %w", err)
	}
	return queued, nil
}

// PendingReferences lists queued names for a profile in arrival order without
// consuming them.
func (s *Store) PendingReferences(ctx context.Context, profileID string) ([]InboxEntry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, profile_id, name, received_at FROM reference_inbox
         WHERE profile_id = ? ORDER BY received_at, id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	defer rows.Close()

	var entries []InboxEntry
	for rows.Next() {
		var entry InboxEntry
		var receivedAt string
		if err := rows.Scan(&entry.ID, &entry.ProfileID, &entry.Name, &receivedAt); err != nil {
			return nil, fmt.Errorf("scan inbox entry: %w", err)
		}
		if parsed, parseErr := time.Parse(time.RFC3339Nano, receivedAt); parseErr == nil {
			entry.ReceivedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inbox: %w", err)
	}
	return entries, nil
}

// DrainReferences atomically consumes all queued names for a profile,
// returning them in arrival order. Concurrent drains never deliver the same
// entry twice: the select and delete run in one transaction keyed by entry
// id.
func (s *Store) DrainReferences(ctx context.Context, profileID string) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin drain tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(
		ctx,
		`SELECT id, name FROM reference_inbox WHERE profile_id = ? ORDER BY received_at, id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("select inbox: %w", err)
	}

	var ids []string
	var names []string
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan inbox entry: %w", err)
		}
		ids = append(ids, id)
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate inbox: %w", err)
	}
	rows.Close()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM reference_inbox WHERE id = ?`, id); err != nil {
			return nil, fmt.Errorf("delete inbox entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit drain: %w", err)
	}
	return names, nil
}

// Selection is the persisted asset choice for a profile. Explicit records
// whether the user clicked the asset; implicit selections come from job
// completion or the default-first rule and may be overridden by either.
type Selection struct {
	ProfileID string
	AssetID   string
	Explicit  bool
	LastJobID string
	UpdatedAt time.Time
}

// Selection returns the persisted selection for a profile, or nil when none
// has been recorded.
func (s *Store) Selection(ctx context.Context, profileID string) (*Selection, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT profile_id, asset_id, explicit, last_job_id, updated_at FROM selections WHERE profile_id = ?`,
		profileID,
	)

	var sel Selection
	var explicit int
	var lastJobID sql.NullString
	var updatedAt string
	err := row.Scan(&sel.ProfileID, &sel.AssetID, &explicit, &lastJobID, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get selection: %w", err)
	}
	sel.Explicit = explicit != 0
	sel.LastJobID = lastJobID.String
	if parsed, parseErr := time.Parse(time.RFC3339Nano, updatedAt); parseErr == nil {
		sel.UpdatedAt = parsed
	}
	return &sel, nil
}

// SaveSelection upserts the selection for a profile.
func (s *Store) SaveSelection(ctx context.Context, sel Selection) error {
	if sel.ProfileID == "" {
		return errors.New("profile id is empty")
	}
	if sel.AssetID == "" {
		return errors.New("asset id is empty")
	}

	explicit := 0
	if sel.Explicit {
		explicit = 1
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO selections (profile_id, asset_id, explicit, last_job_id, updated_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT (profile_id) DO UPDATE SET
             asset_id = excluded.asset_id,
             explicit = excluded.explicit,
             last_job_id = excluded.last_job_id,
             updated_at = excluded.updated_at`,
		sel.ProfileID,
		sel.AssetID,
		explicit,
		nullableString(sel.LastJobID),
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}

// ClearSelection removes the persisted selection for a profile.
func (s *Store) ClearSelection(ctx context.Context, profileID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM selections WHERE profile_id = ?`, profileID); err != nil {
		return fmt.Errorf("clear selection: %w", err)
	}
	return nil
}

const activeProfileKey = "active_profile"

// ActiveProfile returns the locally selected profile id, or "" when none is
// set.
func (s *Store) ActiveProfile(ctx context.Context) (string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, activeProfileKey)
	var value string
	err := row.Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get active profile: %w", err)
	}
	return value, nil
}

// SetActiveProfile records the locally selected profile id.
func (s *Store) SetActiveProfile(ctx context.Context, profileID string) error {
	if profileID == "" {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, activeProfileKey); err != nil {
			return fmt.Errorf("clear active profile: %w", err)
		}
		return nil
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO app_state (key, value) VALUES (?, ?)
         ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		activeProfileKey,
		profileID,
	)
	if err != nil {
		return fmt.Errorf("set active profile: %w", err)
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
