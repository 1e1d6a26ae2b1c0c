// Package vfs stages generated artifacts in memory before they are written
// to an output directory.
package vfs

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"
)

// MaxDiskBytes caps the total size of staged artifacts (16 MiB).
const MaxDiskBytes = 16 << 20

// validFilename accepts a flat file name with an optional short extension.
// Separators are rejected so PersistTo can never escape its directory.
var validFilename = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_-]{0,63}(\.[a-zA-Z0-9]{1,8})?$`)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFilename = errors.New("invalid filename")
	ErrQuotaExceeded   = errors.New("disk quota exceeded")
)

type FileEntry struct {
	Data     []byte
	Modified time.Time
}

// VirtualDisk is an in-memory set of named artifacts. It is safe for
// concurrent use.
type VirtualDisk struct {
	mu        sync.RWMutex
	files     map[string]*FileEntry
	usedBytes int
}

// NewVirtualDisk creates an empty VirtualDisk.
func NewVirtualDisk() *VirtualDisk {
	return &VirtualDisk{files: make(map[string]*FileEntry)}
}

// ValidName reports whether name can be stored on a VirtualDisk.
func ValidName(name string) bool {
	return validFilename.MatchString(name)
}

// Write stores a copy of data under filename, replacing any previous
// content. It fails on invalid names and when the quota would be exceeded.
func (vd *VirtualDisk) Write(filename string, data []byte) error {
	if !validFilename.MatchString(filename) {
		return ErrInvalidFilename
	}

	vd.mu.Lock()
	defer vd.mu.Unlock()

	oldSize := 0
	if existing, ok := vd.files[filename]; ok {
		oldSize = len(existing.Data)
	}
	if vd.usedBytes-oldSize+len(data) > MaxDiskBytes {
		return ErrQuotaExceeded
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	vd.files[filename] = &FileEntry{Data: buf, Modified: time.Now()}
	vd.usedBytes += len(data) - oldSize
	return nil
}

// Read returns a copy of the artifact stored under filename.
func (vd *VirtualDisk) Read(filename string) ([]byte, error) {
	if !validFilename.MatchString(filename) {
		return nil, ErrInvalidFilename
	}

	vd.mu.RLock()
	defer vd.mu.RUnlock()

	entry, ok := vd.files[filename]
	if !ok {
		return nil, ErrFileNotFound
	}
	out := make([]byte, len(entry.Data))
	copy(out, entry.Data)
	return out, nil
}

// Delete removes filename from the disk.
func (vd *VirtualDisk) Delete(filename string) error {
	vd.mu.Lock()
	defer vd.mu.Unlock()

	entry, ok := vd.files[filename]
	if !ok {
		return ErrFileNotFound
	}
	vd.usedBytes -= len(entry.Data)
	delete(vd.files, filename)
	return nil
}

// UsedBytes returns the total size of all staged artifacts.
func (vd *VirtualDisk) UsedBytes() int {
	vd.mu.RLock()
	defer vd.mu.RUnlock()
	return vd.usedBytes
}

// List returns the sorted names of all staged artifacts.
func (vd *VirtualDisk) List() []string {
	vd.mu.RLock()
	defer vd.mu.RUnlock()

	keys := make([]string, 0, len(vd.files))
	for k := range vd.files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PersistTo writes every staged artifact into dir, creating it if needed.
// It returns the first write error encountered.
func (vd *VirtualDisk) PersistTo(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// Snapshot under the read lock, then do I/O without holding it.
	vd.mu.RLock()
	snapshot := make(map[string][]byte, len(vd.files))
	for name, entry := range vd.files {
		snapshot[name] = entry.Data
	}
	vd.mu.RUnlock()

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	var firstErr error
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), snapshot[name], 0o644); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
