package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Staging holds uploaded import files on disk until they are processed.
// Files are named by a random UUID and keep the extension of the upload.
type Staging struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

func NewStaging(fs afero.Fs, dir string, logger *slog.Logger) (*Staging, error) {
	if dir == "" {
		return nil, errors.New("staging directory cannot be empty")
	}
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create staging directory %s: %w", dir, err)
	}
	return &Staging{fs: fs, dir: dir, logger: logger.With("component", "UploadStaging")}, nil
}

func (s *Staging) Dir() string {
	return s.dir
}

// Save copies src into the staging directory and returns the staged path.
func (s *Staging) Save(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	path := filepath.Join(s.dir, uuid.NewString()+ext)

	dst, err := s.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create staged file: %w", err)
	}

	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(path)
		return "", fmt.Errorf("failed to write staged file: %w", err)
	}

	s.logger.Debug("Upload staged", slog.String("path", path), slog.String("originalName", originalName), slog.Int64("bytes", written))
	return path, nil
}

func (s *Staging) Open(path string) (afero.File, error) {
	return s.fs.Open(path)
}

func (s *Staging) Remove(path string) error {
	if err := s.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove staged file %s: %w", path, err)
	}
	return nil
}

// Sweep removes staged files whose modification time is older than maxAge
// and returns how many were removed.
func (s *Staging) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list staging directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	var errs []error
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if entry.IsDir() || !entry.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := s.Remove(path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
		s.logger.DebugContext(ctx, "Removed stale staged file", slog.String("path", path), slog.Time("modTime", entry.ModTime()))
	}

	return removed, errors.Join(errs...)
}
