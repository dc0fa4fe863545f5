package bufop

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"dibkit/parallel"
)

// FileFunc processes one file. Errors are logged and counted by Batch.
type FileFunc func(logger *slog.Logger, path string) error

// Batch hands every regular file of scan with the given extension (any
// extension when ext is empty) to worker, waits for all of them, and
// reports how many failed.
func Batch(scan, ext string, worker parallel.WorkerFunc, wait parallel.WaitFunc, fn FileFunc) error {
	files, err := os.ReadDir(scan)
	if err != nil {
		wait(true)
		return fmt.Errorf("unable to read folder %q: %w", scan, err)
	}

	var processedCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() || (ext != "" && !strings.EqualFold(filepath.Ext(file.Name()), ext)) {
			continue
		}

		worker(func(fileName string) func() {
			return func() {
				filePath := filepath.Join(scan, fileName)
				logger := slog.Default().With("file", filePath)

				if err := fn(logger, filePath); err != nil {
					errCount.Add(1)
					logger.Error("could not process file", "error", err)
					return
				}
				processedCount.Add(1)
			}
		}(file.Name()))
	}

	wait(true)

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

// ScanDirs resolves scan to an absolute directory and dest relative to it.
func ScanDirs(scan, dest string) (string, string, error) {
	scanDir, err := filepath.Abs(scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return "", "", fmt.Errorf("invalid scan path %q: %w", scan, err)
	}

	if !filepath.IsAbs(dest) {
		dest = filepath.Join(scanDir, dest)
	}
	return scanDir, dest, nil
}
