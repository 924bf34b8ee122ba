package sweepdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	_ "modernc.org/sqlite"
)

// Row is one completed simulation run inside a parameter sweep: the sampled
// parameters plus the final snapshot.
type Row struct {
	RunID  string
	Sample int
	Rerun  int
	Sim    int

	NR int
	DR float64
	DF float64
	RF float64

	FinalPredators int
	FinalPrey      int
	NormalizedPrey float64
	ExecutionMs    int64
	TimeSteps      int

	RecordedAt string
}

// Store persists sweep rows to SQLite through a single background writer, so
// worker goroutines never contend on the database connection.
type Store struct {
	db *sql.DB

	ch   chan Row
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
	werr   atomic.Pointer[error]
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		db: db,
		ch: make(chan Row, 1024),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-only sweep workload.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sweep_runs (
			run_id TEXT PRIMARY KEY,
			sample INTEGER NOT NULL,
			rerun INTEGER NOT NULL,
			sim INTEGER NOT NULL,
			nr INTEGER NOT NULL,
			dr REAL NOT NULL,
			df REAL NOT NULL,
			rf REAL NOT NULL,
			final_predators INTEGER NOT NULL,
			final_prey INTEGER NOT NULL,
			normalized_prey REAL NOT NULL,
			execution_ms INTEGER NOT NULL,
			time_steps INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sweep_runs_sample ON sweep_runs(sample, rerun, sim);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Insert queues a row for the background writer. Blocks if the writer is
// behind; sweep rows are results, not telemetry, so none are dropped.
func (s *Store) Insert(r Row) error {
	if s == nil || s.closed.Load() {
		return fmt.Errorf("sweepdb: store closed")
	}
	s.ch <- r
	return nil
}

// Close drains the queue, stops the writer and closes the database. It
// surfaces the first write error the background loop hit, if any.
func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	if err != nil {
		return err
	}
	if p := s.werr.Load(); p != nil {
		return *p
	}
	return nil
}

// RunCount reports how many rows landed, for post-sweep summaries.
func (s *Store) RunCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sweep_runs`).Scan(&n)
	return n, err
}

// RunsForSample reads back every row of one sample, ordered by rerun then
// sim.
func (s *Store) RunsForSample(sample int) ([]Row, error) {
	rows, err := s.db.Query(`
		SELECT run_id, sample, rerun, sim, nr, dr, df, rf,
		       final_predators, final_prey, normalized_prey,
		       execution_ms, time_steps, recorded_at
		FROM sweep_runs WHERE sample = ? ORDER BY rerun, sim`, sample)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(
			&r.RunID, &r.Sample, &r.Rerun, &r.Sim, &r.NR, &r.DR, &r.DF, &r.RF,
			&r.FinalPredators, &r.FinalPrey, &r.NormalizedPrey,
			&r.ExecutionMs, &r.TimeSteps, &r.RecordedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) loop() {
	stmt, err := s.db.Prepare(`
		INSERT OR REPLACE INTO sweep_runs (
			run_id, sample, rerun, sim, nr, dr, df, rf,
			final_predators, final_prey, normalized_prey,
			execution_ms, time_steps, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		s.werr.Store(&err)
		for range s.ch {
		}
		return
	}
	defer stmt.Close()

	for r := range s.ch {
		if _, err := stmt.Exec(
			r.RunID, r.Sample, r.Rerun, r.Sim, r.NR, r.DR, r.DF, r.RF,
			r.FinalPredators, r.FinalPrey, r.NormalizedPrey,
			r.ExecutionMs, r.TimeSteps, r.RecordedAt,
		); err != nil && s.werr.Load() == nil {
			s.werr.Store(&err)
		}
	}
}
