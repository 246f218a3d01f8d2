// Package store keeps converted dice grids under opaque keys so one tool call
// can produce a grid and later calls can render, export or summarize it.
//
// Grids are JSON encoded and compressed with zstd. A Store is in-memory by
// default; when created with a directory it also writes each grid to
// <dir>/<key>.grid.zst and reads missing keys back from disk, so grids
// survive a restart.
//
// Store is safe for concurrent use.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/ironsheep/dice-mosaic-mcp/internal/mosaic"
)

// ErrNotFound is returned when a key has no stored grid.
var ErrNotFound = errors.New("grid not found")

const fileSuffix = ".grid.zst"

// Shared encoder/decoder (thread-safe, reusable)
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic(fmt.Sprintf("failed to create zstd encoder: %v", err))
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic(fmt.Sprintf("failed to create zstd decoder: %v", err))
	}
}

// Store holds compressed grids keyed by content hash.
type Store struct {
	mu     sync.RWMutex
	dir    string
	grids  map[string][]byte
	latest string
}

// New returns an in-memory store.
func New() *Store {
	return &Store{grids: make(map[string][]byte)}
}

// NewWithDir returns a store backed by dir, creating it if needed.
func NewWithDir(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	s := New()
	s.dir = dir
	return s, nil
}

// Put stores g and returns its key. Storing an identical grid again returns
// the same key. The stored grid becomes the latest one.
func (s *Store) Put(g mosaic.Grid) (string, error) {
	if err := g.Validate(); err != nil {
		return "", fmt.Errorf("refusing to store invalid grid: %w", err)
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("failed to encode grid: %w", err)
	}
	key := keyFor(raw)
	packed := zstdEncoder.EncodeAll(raw, make([]byte, 0, len(raw)/8))

	if s.dir != "" {
		if err := os.WriteFile(s.path(key), packed, 0o644); err != nil {
			return "", fmt.Errorf("failed to write grid %s: %w", key, err)
		}
	}

	s.mu.Lock()
	s.grids[key] = packed
	s.latest = key
	s.mu.Unlock()

	return key, nil
}

// Get returns the grid stored under key.
func (s *Store) Get(key string) (mosaic.Grid, error) {
	s.mu.RLock()
	packed, ok := s.grids[key]
	s.mu.RUnlock()

	if !ok {
		if s.dir == "" || !validKey(key) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		data, err := os.ReadFile(s.path(key))
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read grid %s: %w", key, err)
		}
		packed = data

		s.mu.Lock()
		s.grids[key] = packed
		s.mu.Unlock()
	}

	return decodeGrid(key, packed)
}

// Latest returns the most recently stored grid and its key.
func (s *Store) Latest() (string, mosaic.Grid, error) {
	s.mu.RLock()
	key := s.latest
	s.mu.RUnlock()

	if key == "" {
		return "", nil, fmt.Errorf("no grid stored yet: %w", ErrNotFound)
	}
	g, err := s.Get(key)
	if err != nil {
		return "", nil, err
	}
	return key, g, nil
}

// Resolve returns the grid for key, or the latest grid when key is empty.
func (s *Store) Resolve(key string) (string, mosaic.Grid, error) {
	if key == "" {
		return s.Latest()
	}
	g, err := s.Get(key)
	if err != nil {
		return "", nil, err
	}
	return key, g, nil
}

// Delete removes key from memory and disk. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	delete(s.grids, key)
	if s.latest == key {
		s.latest = ""
	}
	s.mu.Unlock()

	if s.dir != "" && validKey(key) {
		if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove grid %s: %w", key, err)
		}
	}
	return nil
}

// Keys lists the stored keys in sorted order, including grids that are only
// on disk.
func (s *Store) Keys() ([]string, error) {
	seen := make(map[string]struct{})

	s.mu.RLock()
	for k := range s.grids {
		seen[k] = struct{}{}
	}
	s.mu.RUnlock()

	if s.dir != "" {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list store directory: %w", err)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, fileSuffix) {
				continue
			}
			seen[strings.TrimSuffix(name, fileSuffix)] = struct{}{}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+fileSuffix)
}

func decodeGrid(key string, packed []byte) (mosaic.Grid, error) {
	raw, err := zstdDecoder.DecodeAll(packed, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress %s: %w", key, err)
	}
	var g mosaic.Grid
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("failed to decode grid %s: %w", key, err)
	}
	return g, nil
}

// keyFor derives a 12 hex digit key from the encoded grid.
func keyFor(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:6])
}

// validKey guards the file system against keys that are not ours.
func validKey(key string) bool {
	if len(key) != 12 {
		return false
	}
	_, err := hex.DecodeString(key)
	return err == nil
}
