// Package memory provides a process-local scan.Repository.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/khanhnv2901/hdrscan/internal/domain/scan"
	sharedErrors "github.com/khanhnv2901/hdrscan/internal/shared/errors"
)

// Repository keeps scan records in memory. IDs are assigned serially
// starting at 1. Safe for concurrent use.
type Repository struct {
	mu      sync.RWMutex
	records []*scan.Record
	nextID  int64
	now     func() time.Time
}

// NewRepository creates an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{nextID: 1, now: time.Now}
}

// Save stores a copy of record with a fresh ID and timestamp.
func (r *Repository) Save(ctx context.Context, record *scan.Record) (*scan.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if record == nil {
		return nil, sharedErrors.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := record.Clone()
	stored.ID = r.nextID
	stored.Timestamp = r.now().UTC()
	r.nextID++
	r.records = append(r.records, stored)

	return stored.Clone(), nil
}

// FindByID retrieves a record by its ID
func (r *Repository) FindByID(ctx context.Context, id int64) (*scan.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.ID == id {
			return rec.Clone(), nil
		}
	}
	return nil, sharedErrors.ErrScanNotFound
}

// FindByURL returns up to limit records for url, newest first.
func (r *Repository) FindByURL(ctx context.Context, url string, limit int) ([]*scan.Record, error) {
	return r.query(func(rec *scan.Record) bool { return rec.URL == url }, limit), nil
}

// Recent returns up to limit records, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]*scan.Record, error) {
	return r.query(func(*scan.Record) bool { return true }, limit), nil
}

// Close is a no-op.
func (r *Repository) Close() error { return nil }

func (r *Repository) query(keep func(*scan.Record) bool, limit int) []*scan.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*scan.Record, 0)
	for _, rec := range r.records {
		if keep(rec) {
			out = append(out, rec.Clone())
		}
	}
	sortNewestFirst(out)
	if limit = scan.NormalizeLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out
}

// sortNewestFirst orders by timestamp descending, breaking ties by ID.
func sortNewestFirst(records []*scan.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.After(records[j].Timestamp)
		}
		return records[i].ID > records[j].ID
	})
}
