package service

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/noah-isme/ccrm/pkg/storage"
)

const (
	backupPrefix   = "backup_"
	manifestName   = "MANIFEST"
	manifestHeader = "# blake2b-256  size  path"
)

// BackupConfig tunes the backup service.
type BackupConfig struct {
	// SourceDir is copied into every backup; normally the export directory.
	SourceDir string
	Keep      int
	Now       func() time.Time
}

// BackupInfo describes one backup directory.
type BackupInfo struct {
	Name      string
	Path      string
	CreatedAt time.Time
	Files     int
	Size      int64
	HumanSize string
}

// BackupStats aggregates every backup on disk.
type BackupStats struct {
	Count     int
	TotalSize int64
	HumanSize string
	Newest    *BackupInfo
	Oldest    *BackupInfo
}

// BackupService creates timestamped copies of the export directory.
type BackupService struct {
	store   *storage.LocalStorage
	metrics operationObserver
	logger  *zap.Logger
	cfg     BackupConfig
}

// NewBackupService constructs the backup service over the backup root.
func NewBackupService(store *storage.LocalStorage, metrics operationObserver, cfg BackupConfig, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Keep <= 0 {
		cfg.Keep = 5
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &BackupService{store: store, metrics: metrics, logger: logger, cfg: cfg}
}

// Create copies the source directory into backup_<yyyyMMdd_HHmmss> and writes
// a MANIFEST with a blake2b-256 checksum per file.
func (s *BackupService) Create(ctx context.Context) (*BackupInfo, error) {
	started := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveOperation("backup_create", time.Since(started))
		}
	}()

	name := s.nextName(s.cfg.Now())
	if _, err := s.store.CopyDir(s.cfg.SourceDir, name); err != nil {
		return nil, err
	}

	lines, files, size, err := s.checksums(name)
	if err != nil {
		return nil, err
	}
	manifest := manifestHeader + "\n" + strings.Join(lines, "\n")
	if len(lines) > 0 {
		manifest += "\n"
	}
	if _, err := s.store.Save(name+"/"+manifestName, []byte(manifest)); err != nil {
		return nil, err
	}

	info := &BackupInfo{Name: name, Path: s.store.Path(name), CreatedAt: parseBackupTime(name), Files: files, Size: size, HumanSize: humanize.Bytes(uint64(size))}
	s.logger.Info("backup created", zap.String("name", name), zap.Int("files", files), zap.String("size", info.HumanSize))
	return info, nil
}

func (s *BackupService) nextName(now time.Time) string {
	base := backupPrefix + now.Format(fileTimestampLayout)
	name := base
	for i := 1; ; i++ {
		if _, err := os.Stat(s.store.Path(name)); os.IsNotExist(err) {
			return name
		}
		name = base + "_" + strconv.Itoa(i)
	}
}

// checksums hashes every file of the backup except the manifest, sorted by path.
func (s *BackupService) checksums(name string) ([]string, int, int64, error) {
	var (
		lines []string
		size  int64
	)
	err := s.store.Walk(name, func(rel string, info fs.FileInfo) error {
		if rel == manifestName {
			return nil
		}
		sum, err := s.hashFile(name + "/" + rel)
		if err != nil {
			return err
		}
		lines = append(lines, fmt.Sprintf("%s  %d  %s", sum, info.Size(), rel))
		size += info.Size()
		return nil
	})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("checksum backup %s: %w", name, err)
	}
	sort.Slice(lines, func(i, j int) bool { return manifestPath(lines[i]) < manifestPath(lines[j]) })
	return lines, len(lines), size, nil
}

func (s *BackupService) hashFile(name string) (string, error) {
	file, err := s.store.Open(name)
	if err != nil {
		return "", err
	}
	defer file.Close() //nolint:errcheck
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func manifestPath(line string) string {
	parts := strings.SplitN(line, "  ", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// Verify recomputes the checksums of a backup and returns the paths that are
// missing or differ from its MANIFEST.
func (s *BackupService) Verify(ctx context.Context, name string) ([]string, error) {
	file, err := s.store.Open(name + "/" + manifestName)
	if err != nil {
		return nil, err
	}
	expected := map[string]string{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "  ", 3)
		if len(parts) == 3 {
			expected[parts[2]] = parts[0]
		}
	}
	_ = file.Close()
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var mismatched []string
	for path, want := range expected {
		got, err := s.hashFile(name + "/" + path)
		if err != nil || got != want {
			mismatched = append(mismatched, path)
		}
	}
	sort.Strings(mismatched)
	return mismatched, nil
}

// List returns every backup, newest first.
func (s *BackupService) List(ctx context.Context) ([]BackupInfo, error) {
	entries, err := s.store.List("")
	if err != nil {
		return nil, err
	}
	backups := make([]BackupInfo, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir || !strings.HasPrefix(e.Name, backupPrefix) {
			continue
		}
		info := BackupInfo{Name: e.Name, Path: e.Path, CreatedAt: parseBackupTime(e.Name)}
		err := s.store.Walk(e.Name, func(rel string, fi fs.FileInfo) error {
			if rel == manifestName {
				return nil
			}
			info.Files++
			info.Size += fi.Size()
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("inspect backup %s: %w", e.Name, err)
		}
		info.HumanSize = humanize.Bytes(uint64(info.Size))
		backups = append(backups, info)
	}
	sort.SliceStable(backups, func(i, j int) bool { return backups[i].Name > backups[j].Name })
	return backups, nil
}

// Statistics summarises every backup on disk.
func (s *BackupService) Statistics(ctx context.Context) (BackupStats, error) {
	backups, err := s.List(ctx)
	if err != nil {
		return BackupStats{}, err
	}
	stats := BackupStats{Count: len(backups)}
	for _, b := range backups {
		stats.TotalSize += b.Size
	}
	stats.HumanSize = humanize.Bytes(uint64(stats.TotalSize))
	if len(backups) > 0 {
		newest, oldest := backups[0], backups[len(backups)-1]
		stats.Newest, stats.Oldest = &newest, &oldest
	}
	return stats, nil
}

// Cleanup deletes all but the newest keep backups and returns the removed
// names. A non-positive keep uses the configured retention.
func (s *BackupService) Cleanup(ctx context.Context, keep int) ([]string, error) {
	if keep <= 0 {
		keep = s.cfg.Keep
	}
	backups, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var removed []string
	for i := keep; i < len(backups); i++ {
		if err := s.store.Delete(backups[i].Name); err != nil {
			return removed, err
		}
		removed = append(removed, backups[i].Name)
	}
	if len(removed) > 0 {
		s.logger.Info("old backups removed", zap.Strings("names", removed), zap.Int("kept", keep))
	}
	return removed, nil
}

// Tree renders the backup root down to maxDepth levels.
func (s *BackupService) Tree(ctx context.Context, maxDepth int) (string, error) {
	return s.store.Tree("", maxDepth)
}

func parseBackupTime(name string) time.Time {
	stamp := strings.TrimPrefix(name, backupPrefix)
	if len(stamp) > len(fileTimestampLayout) {
		stamp = stamp[:len(fileTimestampLayout)]
	}
	t, err := time.ParseInLocation(fileTimestampLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
