// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

// Package storage persists uploaded audio files on the local filesystem.
//
// Stored names are generated server-side (timestamp plus random suffix plus
// the original extension) so client-supplied names never reach the
// filesystem. Resolve guards against path traversal: any name that would
// escape the upload root is rejected.
package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/navarasa/analyzer/internal/logging"
	"github.com/navarasa/analyzer/internal/metrics"
	"github.com/navarasa/analyzer/internal/models"
)

var (
	// ErrInvalidExtension is returned when the upload's extension is not
	// on the allow-list.
	ErrInvalidExtension = errors.New("invalid file type")

	// ErrFileTooLarge is returned when the upload exceeds the size cap.
	ErrFileTooLarge = errors.New("file too large")

	// ErrNotFound is returned when a stored file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrInvalidName is returned for names that would escape the upload root.
	ErrInvalidName = errors.New("invalid file name")
)

// FileStore writes and resolves uploaded audio files under a single root
// directory. Safe for concurrent use.
type FileStore struct {
	root       string
	maxBytes   int64
	extensions map[string]struct{}
}

// NewFileStore creates the upload root if needed and returns a store
// enforcing the given size cap and extension allow-list.
func NewFileStore(root string, maxBytes int64, allowedExtensions []string) (*FileStore, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving upload root: %w", err)
	}
	if err := os.MkdirAll(absRoot, 0o750); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	exts := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	return &FileStore{
		root:       absRoot,
		maxBytes:   maxBytes,
		extensions: exts,
	}, nil
}

// Root returns the absolute upload root directory.
func (s *FileStore) Root() string {
	return s.root
}

// AllowedExtensions returns the allow-list. Order is not stable; callers
// wanting a deterministic listing should sort.
func (s *FileStore) AllowedExtensions() []string {
	exts := make([]string, 0, len(s.extensions))
	for ext := range s.extensions {
		exts = append(exts, ext)
	}
	return exts
}

// Save validates and writes one upload. The extension check runs before any
// bytes are read; a rejected upload writes nothing to disk. The stored name
// is timestamp-random-extension, derived entirely server-side.
func (s *FileStore) Save(originalName string, size int64, r io.Reader) (*models.UploadedFile, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := s.extensions[ext]; !ok {
		exts := s.AllowedExtensions()
		sort.Strings(exts)
		metrics.RecordUpload("rejected_extension", 0)
		return nil, fmt.Errorf("%w: supported formats: %s",
			ErrInvalidExtension, strings.Join(exts, ", "))
	}
	if size > s.maxBytes {
		metrics.RecordUpload("rejected_size", 0)
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.maxBytes)
	}

	name := generateName(ext)
	path := filepath.Join(s.root, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		metrics.RecordUpload("error", 0)
		return nil, fmt.Errorf("creating upload file: %w", err)
	}

	// LimitReader caps the copy one byte past the limit so oversized
	// streams with an understated size are still caught.
	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > s.maxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			logging.Warn().Err(rmErr).Str("path", path).Msg("failed to remove partial upload")
		}
		if errors.Is(err, ErrFileTooLarge) {
			metrics.RecordUpload("rejected_size", 0)
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.maxBytes)
		}
		metrics.RecordUpload("error", 0)
		return nil, fmt.Errorf("writing upload: %w", err)
	}

	metrics.RecordUpload("accepted", written)

	return &models.UploadedFile{
		ID:           name,
		OriginalName: originalName,
		Size:         written,
		Path:         path,
		UploadedAt:   time.Now().UTC(),
	}, nil
}

// Resolve maps a stored file name to its absolute path. Names containing
// separators or traversal sequences are rejected, as is any resolved path
// outside the upload root.
func (s *FileStore) Resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", ErrInvalidName
	}

	path := filepath.Join(s.root, name)
	if !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", ErrInvalidName
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("checking stored file: %w", err)
	}

	return path, nil
}

// Remove deletes a stored file. A missing file is not an error; removal is
// best-effort cleanup after failed analyses.
func (s *FileStore) Remove(name string) error {
	path, err := s.Resolve(name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing stored file: %w", err)
	}
	return nil
}

// generateName builds the stored file name: unix-millis, dash, random
// nine-digit suffix, original extension. The O_EXCL create in Save turns
// the unlikely collision into a retryable error instead of an overwrite.
func generateName(ext string) string {
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}
