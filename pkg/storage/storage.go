// Package storage reads and writes sheet artifacts through
// github.com/viant/afs, so output directories and issued-code files may be
// local paths or any URL afs supports (file://, mem://, s3://, gs://).
package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/labmed/barcoder/pkg/errors"
)

// Store is a thin wrapper over an afs service. Writes to remote URLs are
// retried with backoff.
type Store struct {
	fs       afs.Service
	attempts int
	delay    time.Duration
}

// New creates a store backed by the default afs service.
func New() *Store {
	return NewWithService(afs.New())
}

// NewWithService creates a store over an existing afs service.
func NewWithService(fs afs.Service) *Store {
	return &Store{fs: fs, attempts: DefaultAttempts, delay: DefaultDelay}
}

// Join appends name to a directory path or URL.
func Join(base, name string) string {
	if base == "" {
		return name
	}
	if isURL(base) {
		return url.Join(base, name)
	}
	return filepath.Join(base, name)
}

func isURL(s string) bool { return strings.Contains(s, "://") }

func location(p string) (string, error) {
	if isURL(p) {
		return p, nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolving %s", p)
	}
	return abs, nil
}

// Write stores data at p, creating parent directories as needed.
func (s *Store) Write(ctx context.Context, p string, data []byte) error {
	loc, err := location(p)
	if err != nil {
		return err
	}
	attempts := 1
	if remote(loc) {
		attempts = s.attempts
	}
	err = retry(ctx, attempts, s.delay, func() error {
		if err := s.fs.Upload(ctx, loc, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
			return &transientError{err}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "writing %s", p)
	}
	return nil
}

// Read returns the content stored at p.
func (s *Store) Read(ctx context.Context, p string) ([]byte, error) {
	loc, err := location(p)
	if err != nil {
		return nil, err
	}
	ok, err := s.fs.Exists(ctx, loc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "checking %s", p)
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s does not exist", p)
	}
	data, err := s.fs.DownloadWithURL(ctx, loc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "reading %s", p)
	}
	return data, nil
}

// Exists reports whether something is stored at p.
func (s *Store) Exists(ctx context.Context, p string) (bool, error) {
	loc, err := location(p)
	if err != nil {
		return false, err
	}
	ok, err := s.fs.Exists(ctx, loc)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeIO, err, "checking %s", p)
	}
	return ok, nil
}

// List returns the URLs of the files directly under dir.
func (s *Store) List(ctx context.Context, dir string) ([]string, error) {
	loc, err := location(dir)
	if err != nil {
		return nil, err
	}
	objects, err := s.fs.List(ctx, loc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "listing %s", dir)
	}
	var out []string
	for _, o := range objects {
		if !o.IsDir() {
			out = append(out, o.URL())
		}
	}
	return out, nil
}
