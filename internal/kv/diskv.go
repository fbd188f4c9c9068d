package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const (
	dirPerm  os.FileMode = 0700
	filePerm os.FileMode = 0600
)

// Disk is a Store backed by one file per key under a base directory.
type Disk struct {
	d        *diskv.Diskv
	basePath string
}

// OpenDisk opens (creating if needed) a disk store rooted at basePath.
func OpenDisk(basePath string) (*Disk, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("kv: base path required")
	}
	if err := os.MkdirAll(basePath, dirPerm); err != nil {
		return nil, fmt.Errorf("kv: create %s: %w", basePath, err)
	}
	tmp := filepath.Join(basePath, ".tmp")
	if err := os.MkdirAll(tmp, dirPerm); err != nil {
		return nil, fmt.Errorf("kv: create %s: %w", tmp, err)
	}

	return &Disk{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    flatTransform,
			TempDir:      tmp, // writes go through rename for atomicity
			CacheSizeMax: 512 * 1024,
			PathPerm:     dirPerm,
			FilePerm:     filePerm,
		}),
		basePath: basePath,
	}, nil
}

// BasePath returns the directory holding the key files.
func (s *Disk) BasePath() string {
	return s.basePath
}

// flatTransform keeps every key directly under the base path.
func flatTransform(string) []string {
	return []string{}
}

// Get implements Store.
func (s *Disk) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, &PersistenceError{Op: "get", Key: key, Err: err}
	}
	val, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, &PersistenceError{Op: "get", Key: key, Err: err}
	}
	return string(val), true, nil
}

// Set implements Store.
func (s *Disk) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return &PersistenceError{Op: "set", Key: key, Err: err}
	}
	if err := s.d.Write(key, []byte(value)); err != nil {
		return &PersistenceError{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Remove implements Store.
func (s *Disk) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return &PersistenceError{Op: "remove", Key: key, Err: err}
	}
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &PersistenceError{Op: "remove", Key: key, Err: err}
	}
	return nil
}

// Keys returns every stored key.
func (s *Disk) Keys(ctx context.Context) []string {
	keys := []string{}
	for k := range s.d.Keys(ctx.Done()) {
		keys = append(keys, k)
	}
	return keys
}
