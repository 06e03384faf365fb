// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newTestStore(t *testing.T, maxBytes int64) *FileStore {
	t.Helper()

	store, err := NewFileStore(t.TempDir(), maxBytes, []string{".mp3", ".wav", ".flac", ".ogg"})
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return store
}

func TestSaveAcceptsAllowedExtension(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, 10<<20)
	payload := bytes.Repeat([]byte{0x52}, 2048)

	file, err := store.Save("track.WAV", int64(len(payload)), bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !strings.HasSuffix(file.ID, ".wav") {
		t.Errorf("stored name %q should keep the lowercased extension", file.ID)
	}
	if file.Size != int64(len(payload)) {
		t.Errorf("Size = %d, want %d", file.Size, len(payload))
	}
	if file.OriginalName != "track.WAV" {
		t.Errorf("OriginalName = %q, want track.WAV", file.OriginalName)
	}

	data, err := os.ReadFile(file.Path)
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("stored bytes differ from upload")
	}
}

func TestSaveRejectsExtensionWithoutWriting(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, 10<<20)

	_, err := store.Save("malware.exe", 10, strings.NewReader("0123456789"))
	if !errors.Is(err, ErrInvalidExtension) {
		t.Fatalf("err = %v, want ErrInvalidExtension", err)
	}
	if !strings.Contains(err.Error(), ".mp3") {
		t.Errorf("error should list supported formats, got %q", err)
	}

	entries, readErr := os.ReadDir(store.Root())
	if readErr != nil {
		t.Fatalf("reading upload root: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("rejected upload left %d files on disk", len(entries))
	}
}

func TestSaveRejectsDeclaredOversize(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, 1024)

	_, err := store.Save("big.mp3", 2048, strings.NewReader("x"))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}
}

// A stream longer than its declared size must still be capped, and the
// partial file cleaned up.
func TestSaveRejectsUnderstatedStream(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, 1024)
	payload := bytes.Repeat([]byte{0xAB}, 4096)

	_, err := store.Save("liar.mp3", 512, bytes.NewReader(payload))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}

	entries, readErr := os.ReadDir(store.Root())
	if readErr != nil {
		t.Fatalf("reading upload root: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("oversized upload left %d files on disk", len(entries))
	}
}

func TestResolveTraversalGuard(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, 10<<20)

	for _, name := range []string{
		"",
		"../../../etc/passwd",
		"..",
		"nested/file.mp3",
		"..\\windows",
	} {
		if _, err := store.Resolve(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Resolve(%q) = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestResolveRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, 10<<20)

	file, err := store.Save("song.ogg", 4, strings.NewReader("abcd"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path, err := store.Resolve(file.ID)
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", file.ID, err)
	}
	if path != file.Path {
		t.Errorf("Resolve = %q, want %q", path, file.Path)
	}

	if _, err := store.Resolve("1700000000-42.mp3"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve of absent file = %v, want ErrNotFound", err)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, 10<<20)

	file, err := store.Save("song.flac", 4, strings.NewReader("abcd"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Remove(file.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(file.Path); !os.IsNotExist(err) {
		t.Error("file should be gone after Remove")
	}

	// Removing again is a no-op.
	if err := store.Remove(file.ID); err != nil {
		t.Errorf("second Remove = %v, want nil", err)
	}

	if err := store.Remove("../outside"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Remove with traversal name = %v, want ErrInvalidName", err)
	}
}

func TestConcurrentSavesUniqueNames(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, 10<<20)

	const n = 32
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		names = make(map[string]struct{}, n)
	)

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			file, err := store.Save("burst.mp3", 8, strings.NewReader("datadata"))
			if err != nil {
				t.Errorf("concurrent Save failed: %v", err)
				return
			}
			mu.Lock()
			names[file.ID] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(names) != n {
		t.Errorf("got %d unique names from %d saves", len(names), n)
	}
	for name := range names {
		if filepath.Ext(name) != ".mp3" {
			t.Errorf("stored name %q lost its extension", name)
		}
	}
}
