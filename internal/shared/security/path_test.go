package security

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	base, err := filepath.Abs(dir)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		file    string
		want    string
		wantErr error
	}{
		{"plain name", "http-headers-example.com-2024-06-02.csv", filepath.Join(base, "http-headers-example.com-2024-06-02.csv"), nil},
		{"record file", "12.json", filepath.Join(base, "12.json"), nil},
		{"dots inside name", "a..b.md", filepath.Join(base, "a..b.md"), nil},
		{"parent element", "..", "", ErrUnsafeName},
		{"current element", ".", "", ErrUnsafeName},
		{"traversal", "../outside.csv", "", ErrUnsafeName},
		{"nested", "sub/report.csv", "", ErrUnsafeName},
		{"backslash", `..\outside.csv`, "", ErrUnsafeName},
		{"absolute", filepath.Join(base, "x.csv"), "", ErrUnsafeName},
		{"empty", "", "", ErrUnsafeName},
		{"blank", "   ", "", ErrUnsafeName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFile(dir, tt.file)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveFile(%q) error = %v, want %v", tt.file, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveFile(%q): %v", tt.file, err)
			}
			if got != tt.want {
				t.Fatalf("ResolveFile(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}

func TestResolveFile_RequiresDir(t *testing.T) {
	if _, err := ResolveFile("", "x.csv"); err == nil {
		t.Fatal("expected error for empty directory")
	}
}

func TestSanitizeFileComponent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"host", "example.com", "example.com"},
		{"ipv4", "127.0.0.1", "127.0.0.1"},
		{"ipv6", "::1", "1"},
		{"parent", "..", "fallback"},
		{"traversal", "../../etc", "etc"},
		{"separators", `a/b\c`, "a-b-c"},
		{"runs collapse", "a  ::  b", "a-b"},
		{"unicode", "bücher.de", "b-cher.de"},
		{"empty", "", "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileComponent(tt.in, "fallback"); got != tt.want {
				t.Fatalf("SanitizeFileComponent(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
