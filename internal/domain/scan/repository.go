package scan

import "context"

// DefaultLimit is used when a query passes a non-positive limit.
const DefaultLimit = 10

// Repository defines the interface for scan record persistence
type Repository interface {
	// Save stores a record, assigning its ID and Timestamp, and returns the stored copy
	Save(ctx context.Context, record *Record) (*Record, error)

	// FindByID retrieves a record by its ID
	FindByID(ctx context.Context, id int64) (*Record, error)

	// FindByURL returns the newest records for url, newest first
	FindByURL(ctx context.Context, url string, limit int) ([]*Record, error)

	// Recent returns the newest records across all URLs
	Recent(ctx context.Context, limit int) ([]*Record, error)

	// Close releases any underlying resources
	Close() error
}

// NormalizeLimit applies DefaultLimit to non-positive limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
