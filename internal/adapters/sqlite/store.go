package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"tourtags/internal/domain"
	"tourtags/internal/ports"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

// Store implements ports.StatisticsRepository and ports.TourStore using SQLite
type Store struct {
	db     *sql.DB
	dbPath string
}

// Ensure Store implements the repository ports
var (
	_ ports.StatisticsRepository = (*Store)(nil)
	_ ports.TourStore            = (*Store)(nil)
)

// Open opens or creates the tour database at path
func Open(path string) (*Store, error) {
	// Expand ~ in path
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL lets the TUI read while the CLI writes
	db, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS tourdata (
			tour_id INTEGER PRIMARY KEY,
			start_time INTEGER NOT NULL,
			start_year INTEGER NOT NULL,
			start_month INTEGER NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			tour_type_id INTEGER NOT NULL DEFAULT 0,
			distance REAL NOT NULL DEFAULT 0,
			elapsed_time INTEGER NOT NULL DEFAULT 0,
			moving_time INTEGER NOT NULL DEFAULT 0,
			altitude_up INTEGER NOT NULL DEFAULT 0,
			altitude_down INTEGER NOT NULL DEFAULT 0,
			max_pulse REAL NOT NULL DEFAULT 0,
			max_altitude REAL NOT NULL DEFAULT 0,
			max_speed REAL NOT NULL DEFAULT 0,
			avg_pulse REAL NOT NULL DEFAULT 0,
			avg_cadence REAL NOT NULL DEFAULT 0,
			avg_temperature REAL NOT NULL DEFAULT 0,
			recorded_time INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS tourtag (
			tag_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			is_root INTEGER NOT NULL DEFAULT 0,
			expand_type INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS tourtagcategory (
			category_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			is_root INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS tourdata_tourtag (
			tag_id INTEGER NOT NULL REFERENCES tourtag(tag_id) ON DELETE CASCADE,
			tour_id INTEGER NOT NULL REFERENCES tourdata(tour_id) ON DELETE CASCADE,
			PRIMARY KEY (tag_id, tour_id)
		);
		CREATE TABLE IF NOT EXISTS tourtagcategory_tourtag (
			category_id INTEGER NOT NULL REFERENCES tourtagcategory(category_id) ON DELETE CASCADE,
			tag_id INTEGER NOT NULL REFERENCES tourtag(tag_id) ON DELETE CASCADE,
			PRIMARY KEY (category_id, tag_id)
		);
		CREATE TABLE IF NOT EXISTS tourtagcategory_tourtagcategory (
			parent_id INTEGER NOT NULL REFERENCES tourtagcategory(category_id) ON DELETE CASCADE,
			child_id INTEGER NOT NULL REFERENCES tourtagcategory(category_id) ON DELETE CASCADE,
			PRIMARY KEY (parent_id, child_id)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_tourdata_start ON tourdata(start_time);
		CREATE INDEX IF NOT EXISTS idx_tourdata_year_month ON tourdata(start_year, start_month);
		CREATE INDEX IF NOT EXISTS idx_tourdata_tourtag_tour ON tourdata_tourtag(tour_id);
		CREATE INDEX IF NOT EXISTS idx_category_tag_tag ON tourtagcategory_tourtag(tag_id);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	return &Store{db: db, dbPath: path}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.dbPath
}

// RootCategories returns categories flagged as root, ordered by name
func (s *Store) RootCategories(ctx context.Context) ([]domain.Category, error) {
	return s.queryCategories(ctx, `
		SELECT category_id, name, is_root FROM tourtagcategory
		WHERE is_root = 1 ORDER BY name, category_id
	`)
}

// SubCategories returns the direct child categories of a category
func (s *Store) SubCategories(ctx context.Context, categoryID int64) ([]domain.Category, error) {
	return s.queryCategories(ctx, `
		SELECT c.category_id, c.name, c.is_root
		FROM tourtagcategory_tourtagcategory cc
		JOIN tourtagcategory c ON c.category_id = cc.child_id
		WHERE cc.parent_id = ?
		ORDER BY c.name, c.category_id
	`, categoryID)
}

// RootTags returns tags flagged as root, ordered by name
func (s *Store) RootTags(ctx context.Context) ([]domain.Tag, error) {
	return s.queryTags(ctx, `
		SELECT tag_id, name, is_root, expand_type FROM tourtag
		WHERE is_root = 1 ORDER BY name, tag_id
	`)
}

// AllTags returns every tag, ordered by name
func (s *Store) AllTags(ctx context.Context) ([]domain.Tag, error) {
	return s.queryTags(ctx, `
		SELECT tag_id, name, is_root, expand_type FROM tourtag
		ORDER BY name, tag_id
	`)
}

// CategoryTags returns the tags filed directly under a category
func (s *Store) CategoryTags(ctx context.Context, categoryID int64) ([]domain.Tag, error) {
	return s.queryTags(ctx, `
		SELECT t.tag_id, t.name, t.is_root, t.expand_type
		FROM tourtagcategory_tourtag ct
		JOIN tourtag t ON t.tag_id = ct.tag_id
		WHERE ct.category_id = ?
		ORDER BY t.name, t.tag_id
	`, categoryID)
}

func (s *Store) queryCategories(ctx context.Context, query string, args ...any) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.IsRoot); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *Store) queryTags(ctx context.Context, query string, args ...any) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.IsRoot, &t.ExpandType); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Tours returns the descriptive fields and tag ids of the given tours
func (s *Store) Tours(ctx context.Context, ids []int64) ([]domain.TourUpdate, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT td.tour_id, td.title, td.tour_type_id, tt.tag_id
		FROM tourdata td
		LEFT JOIN tourdata_tourtag tt ON tt.tour_id = td.tour_id
		WHERE td.tour_id IN (`+placeholders(len(ids))+`)
		ORDER BY td.tour_id, tt.tag_id
	`, int64Args(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TourUpdate
	for rows.Next() {
		var u domain.TourUpdate
		var tagID sql.NullInt64
		if err := rows.Scan(&u.ID, &u.Title, &u.TypeID, &tagID); err != nil {
			return nil, err
		}
		if n := len(out); n > 0 && out[n-1].ID == u.ID {
			out[n-1].TagIDs = append(out[n-1].TagIDs, tagID.Int64)
			continue
		}
		if tagID.Valid {
			u.TagIDs = []int64{tagID.Int64}
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// BeginTx starts a new transaction
func (s *Store) BeginTx(ctx context.Context) (ports.TourTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &tourTx{tx: tx}, nil
}
