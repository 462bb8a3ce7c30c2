// Package storage provides SQLite-based run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/pthm-cable/foodbots/config"
	"github.com/pthm-cable/foodbots/telemetry"
)

// ErrRunNotFound is returned when a run ID has no recorded data.
var ErrRunNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// RunEntry is one recorded simulation run.
type RunEntry struct {
	ID          int64
	Seed        int64
	Generations int
	BestFitness float64
	CreatedAt   time.Time
}

// GenerationRecord is one recorded generation of a run.
type GenerationRecord struct {
	RunID          int64
	Generation     int
	Ticks          int
	FoodEaten      int
	EatenFraction  float64
	BestFitness    float64
	FitnessMean    float64
	FitnessStd     float64
	VolatilityMean float64
	InvalidOps     int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			config_yaml TEXT NOT NULL,
			generations INTEGER NOT NULL DEFAULT 0,
			best_fitness REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS generations (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			generation INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			food_eaten INTEGER NOT NULL,
			eaten_fraction REAL NOT NULL,
			best_fitness REAL NOT NULL,
			fitness_mean REAL NOT NULL,
			fitness_std REAL NOT NULL,
			volatility_mean REAL NOT NULL,
			invalid_ops INTEGER NOT NULL DEFAULT 0,
			best_genome TEXT NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
		CREATE INDEX IF NOT EXISTS idx_generations_best ON generations(run_id, best_fitness DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateRun records the start of a run and returns its ID.
func (s *Store) CreateRun(seed int64, cfg *config.Config) (int64, error) {
	cfgYAML, err := cfg.MarshalYAMLBytes()
	if err != nil {
		return 0, fmt.Errorf("storage: %w", err)
	}

	result, err := s.db.Exec(
		"INSERT INTO runs (seed, config_yaml) VALUES (?, ?)",
		seed, string(cfgYAML),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot create run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// SaveGeneration records a finished generation and its best genome.
func (s *Store) SaveGeneration(runID int64, stats telemetry.GenerationStats, bestGenome []string) error {
	if bestGenome == nil {
		bestGenome = []string{}
	}
	genomeJSON, err := json.Marshal(bestGenome)
	if err != nil {
		return fmt.Errorf("storage: cannot encode genome: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO generations (
			run_id, generation, ticks, food_eaten, eaten_fraction,
			best_fitness, fitness_mean, fitness_std, volatility_mean,
			invalid_ops, best_genome
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, stats.Generation, stats.Ticks, stats.FoodEaten, stats.EatenFraction,
		stats.BestFitness, stats.FitnessMean, stats.FitnessStd, stats.VolatilityMean,
		stats.InvalidOps, string(genomeJSON),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save generation: %w", err)
	}

	result, err := tx.Exec(
		`UPDATE runs
		 SET generations = generations + 1,
		     best_fitness = MAX(best_fitness, ?)
		 WHERE id = ?`,
		stats.BestFitness, runID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot update run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrRunNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit generation: %w", err)
	}
	return nil
}

// Runs retrieves the most recent runs, newest first.
func (s *Store) Runs(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, seed, generations, best_fitness, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Seed, &e.Generations, &e.BestFitness, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// Generations retrieves every recorded generation of a run in order.
func (s *Store) Generations(runID int64) ([]GenerationRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, generation, ticks, food_eaten, eaten_fraction,
		        best_fitness, fitness_mean, fitness_std, volatility_mean, invalid_ops
		 FROM generations
		 WHERE run_id = ?
		 ORDER BY generation`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query generations: %w", err)
	}
	defer rows.Close()

	var records []GenerationRecord
	for rows.Next() {
		var r GenerationRecord
		if err := rows.Scan(
			&r.RunID, &r.Generation, &r.Ticks, &r.FoodEaten, &r.EatenFraction,
			&r.BestFitness, &r.FitnessMean, &r.FitnessStd, &r.VolatilityMean, &r.InvalidOps,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// BestGenome returns the genome of the run's fittest generation. The
// earliest generation wins ties.
func (s *Store) BestGenome(runID int64) ([]string, error) {
	var raw string
	err := s.db.QueryRow(
		`SELECT best_genome
		 FROM generations
		 WHERE run_id = ?
		 ORDER BY best_fitness DESC, generation ASC
		 LIMIT 1`,
		runID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best genome: %w", err)
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("storage: cannot decode genome: %w", err)
	}
	return names, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
