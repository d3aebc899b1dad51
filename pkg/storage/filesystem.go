package storage

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry describes a file or directory below the storage root.
type Entry struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// LocalStorage persists files on disk under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: abs}, nil
}

// Root returns the absolute base directory.
func (s *LocalStorage) Root() string {
	return s.baseDir
}

// Save writes the given bytes to the provided relative path under the base dir.
func (s *LocalStorage) Save(filename string, data []byte) (string, error) {
	path := s.resolve(filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// Open returns a read-only handle for the stored file.
func (s *LocalStorage) Open(filename string) (*os.File, error) {
	file, err := os.Open(s.resolve(filename))
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file or directory tree if present.
func (s *LocalStorage) Delete(name string) error {
	if err := os.RemoveAll(s.resolve(name)); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

// List returns the direct children of dir, sorted by name.
func (s *LocalStorage) List(dir string) ([]Entry, error) {
	path := s.resolve(dir)
	items, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		info, err := item.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", item.Name(), err)
		}
		entries = append(entries, Entry{
			Name:    item.Name(),
			Path:    filepath.Join(path, item.Name()),
			IsDir:   item.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// CopyDir copies src recursively into dst (relative to the base dir) and
// returns the number of files copied. A missing src copies nothing.
func (s *LocalStorage) CopyDir(src, dst string) (int, error) {
	target := s.resolve(dst)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return 0, nil
	}
	copied := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(target, rel)
		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}
		if err := copyFile(path, out); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("copy %s: %w", src, err)
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Walk visits every regular file below dir with its path relative to dir.
func (s *LocalStorage) Walk(dir string, fn func(rel string, info fs.FileInfo) error) error {
	root := s.resolve(dir)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel), info)
	})
}

// Size sums the sizes of every file below dir.
func (s *LocalStorage) Size(dir string) (int64, error) {
	var total int64
	err := s.Walk(dir, func(_ string, info fs.FileInfo) error {
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("size of %s: %w", dir, err)
	}
	return total, nil
}

// Tree renders dir as an indented listing down to maxDepth levels (0 means
// only the direct children).
func (s *LocalStorage) Tree(dir string, maxDepth int) (string, error) {
	var b strings.Builder
	if err := s.tree(&b, s.resolve(dir), 0, maxDepth); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *LocalStorage) tree(b *strings.Builder, path string, depth, maxDepth int) error {
	entries, err := s.List(path)
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", depth)
	for _, e := range entries {
		if e.IsDir {
			fmt.Fprintf(b, "%s%s/\n", indent, e.Name)
			if depth < maxDepth {
				if err := s.tree(b, e.Path, depth+1, maxDepth); err != nil {
					return err
				}
			}
			continue
		}
		fmt.Fprintf(b, "%s%s (%d bytes)\n", indent, e.Name, e.Size)
	}
	return nil
}

// Path exposes the resolved path of a stored file.
func (s *LocalStorage) Path(filename string) string {
	return s.resolve(filename)
}

func (s *LocalStorage) resolve(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(s.baseDir, filename)
}
