// Package adapter contains infrastructure adapters for the narrow CLI.
package adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/minio/highwayhash"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	m "narrow.dev/pkg/narrow/internal/model"
)

// DefaultMaxFileSize is the size ceiling applied when none is configured.
const DefaultMaxFileSize int64 = 1 << 20

const (
	recursiveSuffix = "/..."
	backupSuffix    = ".bak"
	backupTimestamp = "20060102T150405.000000000"
	defaultFileMode = os.FileMode(0o644)
)

var hashKey = []byte("narrow-content-hash-key-32-bytes")

var skippedDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
}

// SourceFSAdapter abstracts file access for the domain layer: discovering
// sources, reading them under a size ceiling, and writing rewrites and backups.
type SourceFSAdapter interface {
	// Get expands path patterns into a sorted, de-duplicated list of source
	// files. "dir/..." walks recursively, a plain directory lists its direct
	// children, and files are taken as-is. Paths matching any exclude regexp
	// are dropped.
	Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Path, error)

	// ReadFile loads a file, rejecting files above the size ceiling before
	// reading their content.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// WriteFile replaces the content of path, keeping its permissions.
	WriteFile(ctx context.Context, path m.Path, content []byte) error

	// Backup writes content next to path under a timestamped name and returns it.
	Backup(ctx context.Context, path m.Path, content []byte) (m.Path, error)

	// HashContent returns a stable fingerprint for content.
	HashContent(content []byte) string
}

// SourceFSOption configures a LocalSourceFSAdapter.
type SourceFSOption func(*LocalSourceFSAdapter)

// WithMaxFileSize sets the size ceiling in bytes. Zero or less disables the check.
func WithMaxFileSize(size int64) SourceFSOption {
	return func(a *LocalSourceFSAdapter) {
		a.maxFileSize = size
	}
}

// WithExtensions sets the extensions picked up when expanding directories.
func WithExtensions(extensions []string) SourceFSOption {
	return func(a *LocalSourceFSAdapter) {
		if len(extensions) > 0 {
			a.extensions = extensions
		}
	}
}

// WithClock replaces the clock used for backup names.
func WithClock(now func() time.Time) SourceFSOption {
	return func(a *LocalSourceFSAdapter) {
		a.now = now
	}
}

// LocalSourceFSAdapter implements SourceFSAdapter on top of afs.
type LocalSourceFSAdapter struct {
	fs          afs.Service
	maxFileSize int64
	extensions  []string
	now         func() time.Time
}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter(options ...SourceFSOption) *LocalSourceFSAdapter {
	a := &LocalSourceFSAdapter{
		fs:          afs.New(),
		maxFileSize: DefaultMaxFileSize,
		extensions:  DefaultExtensions,
		now:         time.Now,
	}

	for _, option := range options {
		option(a)
	}

	return a
}

// Get expands the provided path patterns into source files.
func (a *LocalSourceFSAdapter) Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Path, error) {
	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []m.Path{"." + recursiveSuffix}
	}

	seen := make(map[m.Path]bool)

	var files []m.Path

	add := func(path string) {
		clean := m.Path(filepath.Clean(path))
		if seen[clean] || isExcluded(string(clean), excludes) {
			return
		}

		seen[clean] = true
		files = append(files, clean)
	}

	for _, pattern := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		root, recursive := splitPattern(string(pattern))

		location, err := a.location(root)
		if err != nil {
			return nil, err
		}

		object, err := a.fs.Object(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", m.ErrNotFound, root)
		}

		if !object.IsDir() {
			add(root)
			continue
		}

		found, err := a.walk(ctx, root, location, recursive)
		if err != nil {
			return nil, err
		}

		for _, path := range found {
			add(path)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i] < files[j]
	})

	return files, nil
}

func (a *LocalSourceFSAdapter) walk(ctx context.Context, root, location string, recursive bool) ([]string, error) {
	rootPath := url.Path(location)

	var found []string

	var visitor storage.OnVisit = func(_ context.Context, baseURL, parent string, info os.FileInfo, _ io.Reader) (bool, error) {
		if info.IsDir() {
			if !recursive || skippedDirs[info.Name()] {
				return false, nil
			}

			return true, nil
		}

		if !IsTypeScriptFile(info.Name(), a.extensions) {
			return true, nil
		}

		full := url.Path(url.Join(baseURL, parent, info.Name()))

		rel, err := filepath.Rel(rootPath, full)
		if err != nil {
			return false, err
		}

		found = append(found, filepath.Join(root, rel))

		return true, nil
	}

	if err := a.fs.Walk(ctx, location, visitor); err != nil {
		return nil, fmt.Errorf("%w: walk %s: %v", m.ErrIO, root, err)
	}

	return found, nil
}

// ReadFile loads file contents after checking existence and size.
func (a *LocalSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	location, err := a.location(string(path))
	if err != nil {
		return nil, err
	}

	object, err := a.fs.Object(ctx, location)
	if err != nil {
		exists, existsErr := a.fs.Exists(ctx, location)
		if existsErr == nil && !exists {
			return nil, fmt.Errorf("%w: %s", m.ErrNotFound, path)
		}

		return nil, fmt.Errorf("%w: stat %s: %v", m.ErrIO, path, err)
	}

	if object.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", m.ErrIO, path)
	}

	if a.maxFileSize > 0 && object.Size() > a.maxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", m.ErrTooLarge, path, object.Size(), a.maxFileSize)
	}

	content, err := a.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", m.ErrIO, path, err)
	}

	return content, nil
}

// WriteFile uploads content to path, reusing the current file mode when known.
func (a *LocalSourceFSAdapter) WriteFile(ctx context.Context, path m.Path, content []byte) error {
	location, err := a.location(string(path))
	if err != nil {
		return err
	}

	mode := defaultFileMode
	if object, statErr := a.fs.Object(ctx, location); statErr == nil {
		mode = object.Mode().Perm()
	}

	if err := a.fs.Upload(ctx, location, mode, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("%w: write %s: %v", m.ErrIO, path, err)
	}

	return nil
}

// Backup stores content as <path>.<timestamp>.bak.
func (a *LocalSourceFSAdapter) Backup(ctx context.Context, path m.Path, content []byte) (m.Path, error) {
	backup := m.Path(fmt.Sprintf("%s.%s%s", path, a.now().UTC().Format(backupTimestamp), backupSuffix))

	if err := a.WriteFile(ctx, backup, content); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}

	return backup, nil
}

// HashContent returns the HighwayHash-64 of content as hex.
func (a *LocalSourceFSAdapter) HashContent(content []byte) string {
	hash, err := highwayhash.New64(hashKey)
	if err != nil {
		// Only reachable with a key that is not 32 bytes long.
		panic(err)
	}

	_, _ = hash.Write(content)

	return fmt.Sprintf("%016x", hash.Sum64())
}

func (a *LocalSourceFSAdapter) location(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: resolve %s: %v", m.ErrIO, path, err)
	}

	return abs, nil
}

func splitPattern(pattern string) (string, bool) {
	switch {
	case pattern == "...":
		return ".", true
	case strings.HasSuffix(pattern, recursiveSuffix):
		root := strings.TrimSuffix(pattern, recursiveSuffix)
		if root == "" {
			root = "/"
		}

		return root, true
	default:
		return pattern, false
	}
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}

		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

func isExcluded(path string, excludes []*regexp.Regexp) bool {
	for _, re := range excludes {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}
