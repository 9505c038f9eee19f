package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/khanhnv2901/hdrscan/internal/domain/scan"
	"github.com/khanhnv2901/hdrscan/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/hdrscan/internal/shared/errors"
)

// FileName is the database file created inside the store directory.
const FileName = "hdrscan.db"

// DefaultDir returns the default store directory under the XDG data home.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "hdrscan")
}

// Options configures how the database is opened.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
	CreateIfNotExists bool

	// EnableWAL switches the journal to write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns the options used by the CLI and server.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Repository implements scan.Repository on SQLite.
type Repository struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Open opens or creates the database inside dir.
func Open(dir string, opts Options) (*Repository, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	dbPath := filepath.Join(dir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dir, constants.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, dbPath: dbPath, now: time.Now}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := repo.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return repo, nil
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.dbPath
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		raw_headers TEXT NOT NULL,
		security_score INTEGER NOT NULL,
		performance_score INTEGER NOT NULL,
		maintainability_score INTEGER NOT NULL,
		overall_score INTEGER NOT NULL,
		total_security INTEGER NOT NULL,
		implemented_security INTEGER NOT NULL,
		total_performance INTEGER NOT NULL,
		implemented_performance INTEGER NOT NULL,
		total_maintainability INTEGER NOT NULL,
		implemented_maintainability INTEGER NOT NULL,
		security_grade TEXT NOT NULL,
		performance_grade TEXT NOT NULL,
		maintainability_grade TEXT NOT NULL,
		overall_grade TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_url ON scans(url);
	CREATE INDEX IF NOT EXISTS idx_scans_timestamp ON scans(timestamp);
	`

	_, err := r.db.ExecContext(context.Background(), schema)
	return err
}

const selectColumns = `id, url, timestamp, raw_headers,
	security_score, performance_score, maintainability_score, overall_score,
	total_security, implemented_security, total_performance, implemented_performance,
	total_maintainability, implemented_maintainability,
	security_grade, performance_grade, maintainability_grade, overall_grade`

// Save inserts a copy of record and returns it with the assigned ID and timestamp.
func (r *Repository) Save(ctx context.Context, record *scan.Record) (*scan.Record, error) {
	if record == nil {
		return nil, sharedErrors.ErrInvalidInput
	}

	stored := record.Clone()
	stored.Timestamp = r.now().UTC()

	headersJSON, err := json.Marshal(stored.RawHeaders)
	if err != nil {
		return nil, fmt.Errorf("%w: raw headers: %v", sharedErrors.ErrSerializationFailed, err)
	}

	query := `
	INSERT INTO scans (url, timestamp, raw_headers,
		security_score, performance_score, maintainability_score, overall_score,
		total_security, implemented_security, total_performance, implemented_performance,
		total_maintainability, implemented_maintainability,
		security_grade, performance_grade, maintainability_grade, overall_grade)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		stored.URL, stored.Timestamp.UnixNano(), string(headersJSON),
		stored.SecurityScore, stored.PerformanceScore, stored.MaintainabilityScore, stored.OverallScore,
		stored.TotalSecurityHeaders, stored.ImplementedSecurityHeaders,
		stored.TotalPerformanceHeaders, stored.ImplementedPerformanceHeaders,
		stored.TotalMaintainabilityHeaders, stored.ImplementedMaintainabilityHeaders,
		stored.SecurityGrade, stored.PerformanceGrade, stored.MaintainabilityGrade, stored.OverallGrade,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert scan: %v", sharedErrors.ErrRepositoryOperation, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: last insert id: %v", sharedErrors.ErrRepositoryOperation, err)
	}
	stored.ID = id

	return stored, nil
}

// FindByID retrieves a record by its ID
func (r *Repository) FindByID(ctx context.Context, id int64) (*scan.Record, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM scans WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sharedErrors.ErrScanNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindByURL returns up to limit records for url, newest first.
func (r *Repository) FindByURL(ctx context.Context, url string, limit int) ([]*scan.Record, error) {
	return r.query(ctx,
		"SELECT "+selectColumns+" FROM scans WHERE url = ? ORDER BY timestamp DESC, id DESC LIMIT ?",
		url, scan.NormalizeLimit(limit))
}

// Recent returns up to limit records, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]*scan.Record, error) {
	return r.query(ctx,
		"SELECT "+selectColumns+" FROM scans ORDER BY timestamp DESC, id DESC LIMIT ?",
		scan.NormalizeLimit(limit))
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]*scan.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query scans: %v", sharedErrors.ErrRepositoryOperation, err)
	}
	defer rows.Close()

	records := make([]*scan.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate scans: %v", sharedErrors.ErrRepositoryOperation, err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*scan.Record, error) {
	var (
		rec         scan.Record
		nanos       int64
		headersJSON string
	)
	err := row.Scan(&rec.ID, &rec.URL, &nanos, &headersJSON,
		&rec.SecurityScore, &rec.PerformanceScore, &rec.MaintainabilityScore, &rec.OverallScore,
		&rec.TotalSecurityHeaders, &rec.ImplementedSecurityHeaders,
		&rec.TotalPerformanceHeaders, &rec.ImplementedPerformanceHeaders,
		&rec.TotalMaintainabilityHeaders, &rec.ImplementedMaintainabilityHeaders,
		&rec.SecurityGrade, &rec.PerformanceGrade, &rec.MaintainabilityGrade, &rec.OverallGrade,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan row: %v", sharedErrors.ErrRepositoryOperation, err)
	}

	rec.Timestamp = time.Unix(0, nanos).UTC()
	rec.RawHeaders = make(map[string]string)
	if err := json.Unmarshal([]byte(headersJSON), &rec.RawHeaders); err != nil {
		return nil, fmt.Errorf("%w: raw headers: %v", sharedErrors.ErrDeserializationFailed, err)
	}
	return &rec, nil
}
