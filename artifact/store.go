package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ErrCaptureFailed classifies every error returned by the store.
// Callers treat it as diagnostic: log it, never fail a scenario on it.
var ErrCaptureFailed = errors.New("artifact capture failed")

const (
	// DefaultDir is where artifacts are written when no directory is configured.
	DefaultDir = "target/screenshots"

	// TimestampLayout is the filename prefix layout (YYYYMMDD_HHMMSS).
	TimestampLayout = "20060102_150405"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SanitizeName replaces every character outside [A-Za-z0-9_-] with an underscore.
func SanitizeName(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// StoreOptions configures a Store.
type StoreOptions struct {
	// Dir is the artifacts directory. It is created on first write.
	// Default: DefaultDir
	Dir string
	// Now returns the timestamp used in filenames.
	// Default: time.Now
	Now func() time.Time
}

// DefaultStoreOptions returns the default store options.
func DefaultStoreOptions() StoreOptions {
	return StoreOptions{
		Dir: DefaultDir,
		Now: time.Now,
	}
}

// Store writes diagnostic artifacts named <timestamp>_<sanitized-name><ext> into a directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a store with default options.
func NewStore() *Store {
	return NewStoreWithOptions(DefaultStoreOptions())
}

// NewStoreWithOptions creates a store. Zero fields fall back to defaults.
func NewStoreWithOptions(options StoreOptions) *Store {
	if options.Dir == "" {
		options.Dir = DefaultDir
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &Store{
		dir: options.Dir,
		now: options.Now,
	}
}

// Dir returns the artifacts directory.
func (s *Store) Dir() string {
	return s.dir
}

// Filename returns the artifact filename for name at the current time.
func (s *Store) Filename(name, ext string) string {
	return s.now().Format(TimestampLayout) + "_" + SanitizeName(name) + ext
}

// SaveScreenshot writes a PNG screenshot and returns its path.
func (s *Store) SaveScreenshot(name string, png []byte) (string, error) {
	return s.write(s.Filename(name, ".png"), png)
}

// SaveText writes lines as a text artifact and returns its path.
// ext should include the leading dot, e.g. ".console.log".
func (s *Store) SaveText(name, ext string, lines []string) (string, error) {
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	return s.write(s.Filename(name, ext), []byte(content))
}

func (s *Store) write(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("%w: creating directory %s: %w", ErrCaptureFailed, s.dir, err)
	}
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: writing %s: %w", ErrCaptureFailed, path, err)
	}
	return path, nil
}
