package json

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/khanhnv2901/hdrscan/internal/domain/scan"
	"github.com/khanhnv2901/hdrscan/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/hdrscan/internal/shared/errors"
	"github.com/khanhnv2901/hdrscan/internal/shared/security"
)

// scanDTO is the data transfer object for JSON serialization
type scanDTO struct {
	ID         int64             `json:"id"`
	URL        string            `json:"url"`
	Timestamp  string            `json:"timestamp"`
	RawHeaders map[string]string `json:"raw_headers"`
	Scores     scoresDTO         `json:"scores"`
	Counts     countsDTO         `json:"counts"`
	Grades     gradesDTO         `json:"grades"`
}

type scoresDTO struct {
	Security        int `json:"security"`
	Performance     int `json:"performance"`
	Maintainability int `json:"maintainability"`
	Overall         int `json:"overall"`
}

type countsDTO struct {
	TotalSecurity              int `json:"total_security"`
	ImplementedSecurity        int `json:"implemented_security"`
	TotalPerformance           int `json:"total_performance"`
	ImplementedPerformance     int `json:"implemented_performance"`
	TotalMaintainability       int `json:"total_maintainability"`
	ImplementedMaintainability int `json:"implemented_maintainability"`
}

type gradesDTO struct {
	Security        string `json:"security"`
	Performance     string `json:"performance"`
	Maintainability string `json:"maintainability"`
	Overall         string `json:"overall"`
}

const (
	scanFileSuffix  = ".json"
	maxSaveAttempts = 16
)

// ScanRepository implements the scan.Repository interface using one JSON
// file per record under a directory.
type ScanRepository struct {
	dir    string
	mu     sync.RWMutex
	nextID int64
	now    func() time.Time
}

// NewScanRepository creates a JSON-file scan repository rooted at dir.
func NewScanRepository(dir string) (*ScanRepository, error) {
	if dir == "" {
		return nil, fmt.Errorf("scan directory cannot be empty")
	}

	if err := os.MkdirAll(dir, constants.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create scan directory: %w", err)
	}

	r := &ScanRepository{dir: dir, now: time.Now}

	ids, err := r.listIDs()
	if err != nil {
		return nil, err
	}
	r.nextID = 1
	for _, id := range ids {
		if id >= r.nextID {
			r.nextID = id + 1
		}
	}

	return r, nil
}

// Save persists a copy of record with a fresh ID and timestamp. Record files
// are created exclusively, so another process writing to the same directory
// never has its records overwritten; on a collision the next free ID is used.
func (r *ScanRepository) Save(ctx context.Context, record *scan.Record) (*scan.Record, error) {
	if record == nil {
		return nil, sharedErrors.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := record.Clone()
	stored.Timestamp = r.now().UTC()

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		stored.ID = r.nextID

		err := r.writeNew(stored)
		if err == nil {
			r.nextID++
			return stored, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, err
		}
		if err := r.refreshNextID(); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: failed to save scan: no free id after %d attempts", sharedErrors.ErrRepositoryOperation, maxSaveAttempts)
}

// FindByID retrieves a record by its ID
func (r *ScanRepository) FindByID(ctx context.Context, id int64) (*scan.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filePath, err := r.recordPath(id)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, sharedErrors.ErrScanNotFound
	}
	return r.loadFromFile(filePath)
}

// FindByURL returns up to limit records for url, newest first.
func (r *ScanRepository) FindByURL(ctx context.Context, url string, limit int) ([]*scan.Record, error) {
	return r.query(func(rec *scan.Record) bool { return rec.URL == url }, limit)
}

// Recent returns up to limit records, newest first.
func (r *ScanRepository) Recent(ctx context.Context, limit int) ([]*scan.Record, error) {
	return r.query(func(*scan.Record) bool { return true }, limit)
}

// Close is a no-op; every Save is flushed to disk.
func (r *ScanRepository) Close() error { return nil }

// Helper methods

func (r *ScanRepository) query(keep func(*scan.Record) bool, limit int) ([]*scan.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids, err := r.listIDs()
	if err != nil {
		return nil, err
	}

	records := make([]*scan.Record, 0)
	for _, id := range ids {
		filePath, err := r.recordPath(id)
		if err != nil {
			return nil, err
		}
		rec, err := r.loadFromFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("scan %d: %w", id, err)
		}
		if keep(rec) {
			records = append(records, rec)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.After(records[j].Timestamp)
		}
		return records[i].ID > records[j].ID
	})
	if limit = scan.NormalizeLimit(limit); len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// writeNew creates the record file, failing with fs.ErrExist when the ID is taken.
func (r *ScanRepository) writeNew(rec *scan.Record) error {
	filePath, err := r.recordPath(rec.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(toDTO(rec), "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", sharedErrors.ErrSerializationFailed, err)
	}

	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, constants.DefaultFilePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return err
		}
		return fmt.Errorf("%w: failed to save scan: %v", sharedErrors.ErrRepositoryOperation, err)
	}

	_, werr := f.Write(data)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(filePath)
		return fmt.Errorf("%w: failed to save scan: %v", sharedErrors.ErrRepositoryOperation, werr)
	}
	return nil
}

// refreshNextID moves nextID past every record currently on disk.
func (r *ScanRepository) refreshNextID() error {
	ids, err := r.listIDs()
	if err != nil {
		return err
	}
	next := r.nextID + 1
	for _, id := range ids {
		if id >= next {
			next = id + 1
		}
	}
	r.nextID = next
	return nil
}

func (r *ScanRepository) listIDs() ([]int64, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan directory: %w", err)
	}

	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, scanFileSuffix) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSuffix(name, scanFileSuffix), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *ScanRepository) recordPath(id int64) (string, error) {
	return security.ResolveFile(r.dir, strconv.FormatInt(id, 10)+scanFileSuffix)
}

func (r *ScanRepository) loadFromFile(filePath string) (*scan.Record, error) {
	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sharedErrors.ErrRepositoryOperation, err)
	}

	var dto scanDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: %v", sharedErrors.ErrDeserializationFailed, err)
	}

	return fromDTO(dto)
}

func toDTO(rec *scan.Record) scanDTO {
	return scanDTO{
		ID:         rec.ID,
		URL:        rec.URL,
		Timestamp:  rec.Timestamp.Format(time.RFC3339Nano),
		RawHeaders: rec.RawHeaders,
		Scores: scoresDTO{
			Security:        rec.SecurityScore,
			Performance:     rec.PerformanceScore,
			Maintainability: rec.MaintainabilityScore,
			Overall:         rec.OverallScore,
		},
		Counts: countsDTO{
			TotalSecurity:              rec.TotalSecurityHeaders,
			ImplementedSecurity:        rec.ImplementedSecurityHeaders,
			TotalPerformance:           rec.TotalPerformanceHeaders,
			ImplementedPerformance:     rec.ImplementedPerformanceHeaders,
			TotalMaintainability:       rec.TotalMaintainabilityHeaders,
			ImplementedMaintainability: rec.ImplementedMaintainabilityHeaders,
		},
		Grades: gradesDTO{
			Security:        rec.SecurityGrade,
			Performance:     rec.PerformanceGrade,
			Maintainability: rec.MaintainabilityGrade,
			Overall:         rec.OverallGrade,
		},
	}
}

func fromDTO(dto scanDTO) (*scan.Record, error) {
	ts, err := time.Parse(time.RFC3339Nano, dto.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse timestamp: %v", sharedErrors.ErrDeserializationFailed, err)
	}

	headers := dto.RawHeaders
	if headers == nil {
		headers = make(map[string]string)
	}

	return &scan.Record{
		ID:                                dto.ID,
		URL:                               dto.URL,
		Timestamp:                         ts.UTC(),
		RawHeaders:                        headers,
		SecurityScore:                     dto.Scores.Security,
		PerformanceScore:                  dto.Scores.Performance,
		MaintainabilityScore:              dto.Scores.Maintainability,
		OverallScore:                      dto.Scores.Overall,
		TotalSecurityHeaders:              dto.Counts.TotalSecurity,
		ImplementedSecurityHeaders:        dto.Counts.ImplementedSecurity,
		TotalPerformanceHeaders:           dto.Counts.TotalPerformance,
		ImplementedPerformanceHeaders:     dto.Counts.ImplementedPerformance,
		TotalMaintainabilityHeaders:       dto.Counts.TotalMaintainability,
		ImplementedMaintainabilityHeaders: dto.Counts.ImplementedMaintainability,
		SecurityGrade:                     dto.Grades.Security,
		PerformanceGrade:                  dto.Grades.Performance,
		MaintainabilityGrade:              dto.Grades.Maintainability,
		OverallGrade:                      dto.Grades.Overall,
	}, nil
}
