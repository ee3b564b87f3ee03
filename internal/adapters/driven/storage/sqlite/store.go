package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/healthdoc/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.HistoryStore = (*Store)(nil)

// timeLayout is fixed-width so generated_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store is the SQLite render history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.healthdoc/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".healthdoc", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(); err != nil {
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

// migrate applies the migrations newer than the recorded schema version.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	steps, err := migrations.Up()
	if err != nil {
		return err
	}
	for _, m := range steps {
		if m.Version <= current {
			continue
		}
		if err := s.apply(m); err != nil {
			return err
		}
	}
	return nil
}

// apply runs one migration and records its version atomically.
func (s *Store) apply(m migrations.Migration) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", m.Name, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("executing migration %s: %w", m.Name, err)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
		return fmt.Errorf("recording migration %s: %w", m.Name, err)
	}
	return tx.Commit()
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// Record appends a generated report.
func (s *Store) Record(ctx context.Context, report *domain.GeneratedReport) error {
	if report == nil {
		return fmt.Errorf("%w: report is nil", domain.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (report_type, report_name, run_id, document_path, metadata_path,
			generated_at, health_score, health_band)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.ReportType,
		report.ReportName,
		report.RunID,
		report.DocumentPath,
		report.MetadataPath,
		report.GeneratedAt.UTC().Format(timeLayout),
		report.HealthScore,
		report.HealthBand,
	)
	if err != nil {
		return fmt.Errorf("recording report %s: %w", report.ReportType, err)
	}
	return nil
}

// List returns the reports for a run in recording order.
// An empty runID lists every run.
func (s *Store) List(ctx context.Context, runID string) ([]domain.GeneratedReport, error) {
	query := `
		SELECT report_type, report_name, run_id, document_path, metadata_path,
			generated_at, health_score, health_band
		FROM reports`
	var args []any
	if runID != "" {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.GeneratedReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

// Latest returns the most recent report of a type.
func (s *Store) Latest(ctx context.Context, reportType string) (*domain.GeneratedReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT report_type, report_name, run_id, document_path, metadata_path,
			generated_at, health_score, health_band
		FROM reports
		WHERE report_type = ?
		ORDER BY generated_at DESC, id DESC
		LIMIT 1
	`, reportType)

	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return report, err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*domain.GeneratedReport, error) {
	var (
		report      domain.GeneratedReport
		generatedAt string
	)
	err := row.Scan(
		&report.ReportType,
		&report.ReportName,
		&report.RunID,
		&report.DocumentPath,
		&report.MetadataPath,
		&generatedAt,
		&report.HealthScore,
		&report.HealthBand,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning report: %w", err)
	}
	report.GeneratedAt, err = time.Parse(timeLayout, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing generated_at %q: %w", generatedAt, err)
	}
	return &report, nil
}
