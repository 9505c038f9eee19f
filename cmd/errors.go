package cmd

import (
	"fmt"
	"strings"
)

// ScanNotFoundError indicates a scan id lookup failure.
type ScanNotFoundError struct {
	ID int64
}

func (e *ScanNotFoundError) Error() string {
	return fmt.Sprintf("scan %d not found", e.ID)
}

// BatchError reports the targets that failed during a multi-URL run.
type BatchError struct {
	Failed []string
	Total  int
}

func (e *BatchError) Error() string {
	switch len(e.Failed) {
	case 0:
		return "no targets failed"
	case 1:
		return fmt.Sprintf("1 of %d targets failed: %s", e.Total, e.Failed[0])
	}
	return fmt.Sprintf("%d of %d targets failed: %s", len(e.Failed), e.Total, strings.Join(e.Failed, ", "))
}
