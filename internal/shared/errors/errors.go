package errors

import "errors"

// Domain errors
var (
	// Input validation errors
	ErrInvalidURL   = errors.New("invalid URL")
	ErrEmptyURL     = errors.New("URL cannot be empty")
	ErrInvalidInput = errors.New("invalid input")

	// Collaborator errors
	ErrFetchFailed = errors.New("failed to fetch headers from URL")

	// Catalog and evaluation errors
	ErrUnknownCategory = errors.New("unknown header category")
	ErrInvalidCatalog  = errors.New("invalid header catalog")
	ErrEvaluation      = errors.New("header evaluation failed")

	// Repository errors
	ErrScanNotFound          = errors.New("scan not found")
	ErrRepositoryOperation   = errors.New("repository operation failed")
	ErrSerializationFailed   = errors.New("serialization failed")
	ErrDeserializationFailed = errors.New("deserialization failed")

	// Export errors
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
