package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hyeon/stockpilot/pkg/logger"
)

// FileStore keeps collected market data as dated CSV files under a single
// directory (prices_005930_20250110.csv 형식).
// ⭐ SSOT: processed/ 디렉토리 접근은 이 스토어에서만
type FileStore struct {
	dir    string
	logger *logger.Logger
}

// NewFileStore creates a flat-file store rooted at dir
func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir, logger: log}, nil
}

// Dir returns the store's root directory
func (s *FileStore) Dir() string {
	return s.dir
}

// writeCSV writes header + rows to a file atomically (tmp + rename)
func (s *FileStore) writeCSV(filename string, header []string, rows [][]string) (string, error) {
	path := filepath.Join(s.dir, filename)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("flush csv: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename to %s: %w", path, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"file": filename,
		"rows": len(rows),
	}).Debug("CSV written")

	return path, nil
}

// readCSV reads a CSV file and returns its rows without the header
func (s *FileStore) readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}

// latestFile returns the newest file matching the glob pattern. File names
// embed the collection date, so lexicographic order is chronological.
func (s *FileStore) latestFile(pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, pattern))
	if err != nil {
		return "", fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no data file matching %s: %w", pattern, ErrNotFound)
	}

	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
