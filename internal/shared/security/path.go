package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrPathEscape indicates the resolved file would land outside its directory.
	ErrPathEscape = errors.New("path escapes base directory")
	// ErrUnsafeName indicates a file name that is empty, absolute or carries
	// directory components.
	ErrUnsafeName = errors.New("unsafe file name")
)

// ResolveFile returns the absolute path of name inside dir. Only bare file
// names are accepted: export names are built from scanned hosts and record
// files from IDs, so a separator or a dot element means the input was not
// produced by this program.
func ResolveFile(dir, name string) (string, error) {
	if dir == "" {
		return "", errors.New("base directory is required")
	}
	if err := checkName(name); err != nil {
		return "", err
	}

	base, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve base path: %w", err)
	}

	target := filepath.Join(base, name)
	if filepath.Dir(target) != base {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, target)
	}
	return target, nil
}

func checkName(name string) error {
	switch {
	case strings.TrimSpace(name) == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrUnsafeName, name)
	case filepath.IsAbs(name), strings.ContainsAny(name, `/\`), strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	return nil
}

// SanitizeFileComponent maps s onto characters that are safe inside a file
// name. Letters, digits, '.', '-' and '_' are kept and runs of anything else
// collapse to a single '-'. Leading dots and dashes are dropped, so the
// result is never "." or "..". An empty result is replaced by fallback.
func SanitizeFileComponent(s, fallback string) string {
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
			dash = false
		case !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimRight(strings.TrimLeft(b.String(), ".-"), "-")
	if out == "" {
		return fallback
	}
	return out
}
