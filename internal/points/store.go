package points

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"credpoints/internal/logging"

	_ "modernc.org/sqlite"
)

// Store persists the tier table in SQLite. The database is created and
// seeded from DefaultTiers on first open, so a fresh store always classifies
// identically to the compiled-in table.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// OpenStore initializes the SQLite database at the given path.
func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, dbPath: path}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Points("tier store opened: %s", path)
	return store, nil
}

// initialize creates the tier table and seeds it if empty.
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS certifications_data (
		category TEXT NOT NULL PRIMARY KEY,
		keywords TEXT NOT NULL,
		points REAL NOT NULL,
		priority INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cert_priority ON certifications_data(priority);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM certifications_data`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count tiers: %w", err)
	}
	if count > 0 {
		return nil
	}

	return s.seed(DefaultTiers())
}

// seed inserts tier rows. Existing categories are replaced.
func (s *Store) seed(tiers []Tier) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO certifications_data (category, keywords, points, priority) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare seed statement: %w", err)
	}
	defer stmt.Close()

	for _, tier := range tiers {
		keywords, err := json.Marshal(tier.Keywords)
		if err != nil {
			return fmt.Errorf("failed to marshal keywords for %s: %w", tier.Category, err)
		}
		if _, err := stmt.Exec(tier.Category, string(keywords), tier.Points, tier.Priority); err != nil {
			return fmt.Errorf("failed to insert tier %s: %w", tier.Category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	logging.Points("tier store seeded with %d tiers", len(tiers))
	return nil
}

// Tiers returns all tier rows ordered by priority.
func (s *Store) Tiers() ([]Tier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT category, keywords, points, priority FROM certifications_data ORDER BY priority ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tiers: %w", err)
	}
	defer rows.Close()

	var tiers []Tier
	for rows.Next() {
		var tier Tier
		var keywords string
		if err := rows.Scan(&tier.Category, &keywords, &tier.Points, &tier.Priority); err != nil {
			return nil, fmt.Errorf("failed to scan tier: %w", err)
		}
		if err := json.Unmarshal([]byte(keywords), &tier.Keywords); err != nil {
			return nil, fmt.Errorf("failed to parse keywords for %s: %w", tier.Category, err)
		}
		tiers = append(tiers, tier)
	}
	return tiers, rows.Err()
}

// Classify classifies using the stored tier table. A read failure falls
// back to the compiled-in table so classification never errors.
func (s *Store) Classify(certName string) Classification {
	tiers, err := s.Tiers()
	if err != nil {
		logging.Points("tier store read failed, using compiled-in table: %v", err)
		return Classify(certName)
	}
	return ClassifyWith(tiers, certName)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
