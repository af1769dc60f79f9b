// Package reportfile persists rendered crash reports to disk so a
// report survives when the terminal scrollback does not. A rotating
// set of plain-text files is kept per directory.
package reportfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	defaultMaxFiles = 10
	filePrefix      = "crash-"
	fileSuffix      = ".txt"
)

// Writer writes crash report files into a directory, keeping at most
// maxFiles of them.
type Writer struct {
	dir      string
	maxFiles int
	logger   *slog.Logger

	mu sync.Mutex // protects file operations
}

// NewWriter creates a report file writer. maxFiles <= 0 uses the
// default limit; a nil logger disables rotation warnings.
func NewWriter(dir string, maxFiles int, logger *slog.Logger) *Writer {
	if maxFiles <= 0 {
		maxFiles = defaultMaxFiles
	}
	return &Writer{dir: dir, maxFiles: maxFiles, logger: logger}
}

// Write persists one rendered report and returns the file path. Old
// reports beyond the file limit are removed best-effort.
func (w *Writer) Write(report string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}

	name := fmt.Sprintf("%s%s%s", filePrefix,
		time.Now().UTC().Format("2006-01-02T15-04-05.000000000"), fileSuffix)
	path := filepath.Join(w.dir, name)

	if err := os.WriteFile(path, []byte(report), 0o600); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	_ = w.cleanupOldReports()

	return path, nil
}

// cleanupOldReports removes report files exceeding maxFiles, oldest
// first by file name (names embed the creation timestamp).
func (w *Writer) cleanupOldReports() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}

	var reports []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), filePrefix) && strings.HasSuffix(e.Name(), fileSuffix) {
			reports = append(reports, e.Name())
		}
	}
	sort.Strings(reports)

	for len(reports) > w.maxFiles {
		path := filepath.Join(w.dir, reports[0])
		if err := os.Remove(path); err != nil && w.logger != nil {
			w.logger.Warn("failed to remove old crash report",
				"path", path,
				"error", err,
			)
		}
		reports = reports[1:]
	}

	return nil
}
