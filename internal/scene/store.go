package scene

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"reelcut/internal/config"
)

// Store manages scene persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the scene database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.CacheDir, "scenes.db")
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
	if err := store.initSchema(context.Background()); err != nil {
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

// Path returns the scene database location.
func (s *Store) Path() string {
	return s.path
}

// Add inserts a scene at the end of the project, assigning its identifier
// and position. The passed scene is updated in place.
func (s *Store) Add(ctx context.Context, sc *Scene) error {
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("validate scene: %w", err)
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	sc.ID = uuid.NewString()
	sc.CreatedAt = now
	sc.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var maxPosition sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(position) FROM scenes`).Scan(&maxPosition); err != nil {
		return fmt.Errorf("read max position: %w", err)
	}
	sc.Position = int(maxPosition.Int64) + 1

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO scenes (
            id, position, title, media_url, media_kind,
            narration_text, narration_voice, narration_language, narration_audio,
            trim_start, trim_end, duration, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID,
		sc.Position,
		nullableString(sc.Title),
		sc.MediaURL,
		string(sc.MediaKind),
		nullableString(sc.NarrationText),
		nullableString(sc.NarrationVoice),
		nullableString(sc.NarrationLanguage),
		nullableString(sc.NarrationAudio),
		sc.TrimStart,
		sc.TrimEnd,
		sc.Duration,
		timestamp,
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert scene: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add: %w", err)
	}
	return nil
}

// GetByID fetches a scene by identifier. A missing scene returns (nil, nil).
func (s *Store) GetByID(ctx context.Context, id string) (*Scene, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sceneColumns+` FROM scenes WHERE id = ?`, id)
	sc, err := scanScene(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get scene: %w", err)
	}
	return sc, nil
}

// List returns all scenes ordered by position.
func (s *Store) List(ctx context.Context) ([]*Scene, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sceneColumns+` FROM scenes ORDER BY position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer rows.Close()

	var scenes []*Scene
	for rows.Next() {
		sc, err := scanScene(rows)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, sc)
	}
	return scenes, rows.Err()
}

// Update persists changes to an existing scene.
func (s *Store) Update(ctx context.Context, sc *Scene) error {
	if sc == nil {
		return errors.New("scene is nil")
	}
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("validate scene: %w", err)
	}
	sc.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE scenes
         SET position = ?, title = ?, media_url = ?, media_kind = ?,
             narration_text = ?, narration_voice = ?, narration_language = ?,
             narration_audio = ?, trim_start = ?, trim_end = ?, duration = ?,
             updated_at = ?
         WHERE id = ?`,
		sc.Position,
		nullableString(sc.Title),
		sc.MediaURL,
		string(sc.MediaKind),
		nullableString(sc.NarrationText),
		nullableString(sc.NarrationVoice),
		nullableString(sc.NarrationLanguage),
		nullableString(sc.NarrationAudio),
		sc.TrimStart,
		sc.TrimEnd,
		sc.Duration,
		sc.UpdatedAt.Format(time.RFC3339Nano),
		sc.ID,
	)
	if err != nil {
		return fmt.Errorf("update scene: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update scene rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("scene %s not found", sc.ID)
	}
	return nil
}

// Remove deletes a scene and compacts the remaining positions.
func (s *Store) Remove(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin remove tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM scenes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scene: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scene rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("scene %s not found", id)
	}

	if err := compactPositions(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit remove: %w", err)
	}
	return nil
}

// Reorder rewrites scene positions to match the given identifier order. Every
// stored scene must appear exactly once.
func (s *Store) Reorder(ctx context.Context, ids []string) error {
	scenes, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(ids) != len(scenes) {
		return fmt.Errorf("reorder requires all %d scene ids, got %d", len(scenes), len(ids))
	}
	known := make(map[string]struct{}, len(scenes))
	for _, sc := range scenes {
		known[sc.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("unknown scene %s in reorder", id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate scene %s in reorder", id)
		}
		seen[id] = struct{}{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE scenes SET position = ?, updated_at = ? WHERE id = ?`,
			i+1, timestamp, id,
		); err != nil {
			return fmt.Errorf("reorder scene %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}

// Health aggregates scene counts for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	scenes, err := s.List(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{Total: len(scenes)}
	for _, sc := range scenes {
		switch sc.MediaKind {
		case KindVideo:
			health.Videos++
		case KindImage:
			health.Images++
		case KindGallery:
			health.Galleries++
		}
		if sc.NarrationAudio != "" {
			health.WithAudio++
		}
		if sc.Title == "" {
			health.WithOutTitle++
		}
	}
	return health, nil
}

// compactPositions renumbers scenes 1..n preserving their relative order.
func compactPositions(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM scenes ORDER BY position, created_at`)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE scenes SET position = ? WHERE id = ?`, i+1, id); err != nil {
			return fmt.Errorf("compact position for %s: %w", id, err)
		}
	}
	return nil
}
