package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// DefaultUserAgent identifies outbound header fetches.
	DefaultUserAgent = "HTTPHeaderAnalyzer/1.0"
	// DefaultFetchTimeout bounds a single header fetch, redirects included.
	DefaultFetchTimeout = 10 * time.Second
	// MaxRedirects stops redirect loops.
	MaxRedirects = 10
	// DefaultHistoryLimit is the page size for history queries.
	DefaultHistoryLimit = 10
	// MaxHistoryLimit caps caller-supplied page sizes.
	MaxHistoryLimit = 100
)
