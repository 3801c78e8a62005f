package telemetry

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store records report rows and events in SQLite, one run per Store.
// It holds aggregates only; simulation state is never written.
type Store struct {
	conn  *sqlx.DB
	runID string
}

// OpenStore opens or creates a SQLite database at path and registers a new run.
func OpenStore(path string, seed int64) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn, runID: uuid.NewString()}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	_, err = conn.Exec(
		"INSERT INTO runs (id, started_at, seed) VALUES (?, ?, ?)",
		s.runID, time.Now().UTC().Format(time.RFC3339), seed,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("register run: %w", err)
	}

	return s, nil
}

// RunID returns the identifier of this store's run.
func (s *Store) RunID() string {
	return s.runID
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		seed INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reports (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		h_f INTEGER NOT NULL,
		h_m INTEGER NOT NULL,
		c_f INTEGER NOT NULL,
		c_m INTEGER NOT NULL,
		sum_nutrition REAL NOT NULL,
		h_g_speed REAL NOT NULL,
		h_g_vision REAL NOT NULL,
		h_g_attack REAL NOT NULL,
		h_g_repro REAL NOT NULL,
		h_g_size REAL NOT NULL,
		c_g_speed REAL NOT NULL,
		c_g_vision REAL NOT NULL,
		c_g_attack REAL NOT NULL,
		c_g_repro REAL NOT NULL,
		c_g_size REAL NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS extinctions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		species TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS interventions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		kind TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		radius REAL NOT NULL,
		amount REAL NOT NULL,
		fraction REAL NOT NULL,
		affected INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_extinctions_run ON extinctions(run_id);
	CREATE INDEX IF NOT EXISTS idx_interventions_run ON interventions(run_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// InsertReport stores one report row for this run.
func (s *Store) InsertReport(r Report) error {
	_, err := s.conn.Exec(`INSERT INTO reports
		(run_id, tick, h_f, h_m, c_f, c_m, sum_nutrition,
		 h_g_speed, h_g_vision, h_g_attack, h_g_repro, h_g_size,
		 c_g_speed, c_g_vision, c_g_attack, c_g_repro, c_g_size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.runID, r.Tick, r.HerbivoreFemales, r.HerbivoreMales, r.CarnivoreFemales, r.CarnivoreMales, r.SumNutrition,
		r.HSpeed, r.HVision, r.HAttack, r.HRepro, r.HSize,
		r.CSpeed, r.CVision, r.CAttack, r.CRepro, r.CSize,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// InsertExtinctions appends extinction events for this run.
func (s *Store) InsertExtinctions(events []Extinction) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO extinctions (run_id, tick, species) VALUES (?, ?, ?)",
			s.runID, e.Tick, e.Species,
		)
		if err != nil {
			return fmt.Errorf("insert extinction: %w", err)
		}
	}

	return tx.Commit()
}

// InsertIntervention stores one intervention for this run.
func (s *Store) InsertIntervention(iv Intervention) error {
	_, err := s.conn.Exec(
		`INSERT INTO interventions (run_id, tick, kind, x, y, radius, amount, fraction, affected)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.runID, iv.Tick, string(iv.Kind), iv.X, iv.Y, iv.Radius, iv.Amount, iv.Fraction, iv.Affected,
	)
	if err != nil {
		return fmt.Errorf("insert intervention: %w", err)
	}
	return nil
}

// Reports returns this run's report rows in tick order.
func (s *Store) Reports() ([]Report, error) {
	var reports []Report
	err := s.conn.Select(&reports,
		`SELECT tick, h_f, h_m, c_f, c_m, sum_nutrition,
		 h_g_speed, h_g_vision, h_g_attack, h_g_repro, h_g_size,
		 c_g_speed, c_g_vision, c_g_attack, c_g_repro, c_g_size
		 FROM reports WHERE run_id = ? ORDER BY tick`,
		s.runID,
	)
	return reports, err
}

// Extinctions returns this run's extinction events in insertion order.
func (s *Store) Extinctions() ([]Extinction, error) {
	var events []Extinction
	err := s.conn.Select(&events,
		"SELECT tick, species FROM extinctions WHERE run_id = ? ORDER BY id",
		s.runID,
	)
	return events, err
}
