package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/ironsheep/dice-mosaic-mcp/internal/mosaic"
)

func TestStore_PutGet(t *testing.T) {
	s := New()
	g := mosaic.SampleGrid(12)

	key, err := s.Put(g)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if len(key) != 12 {
		t.Errorf("key length: got %d, want 12", len(key))
	}

	got, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(got, g) {
		t.Error("Get returned a different grid")
	}
}

func TestStore_SameGridSameKey(t *testing.T) {
	s := New()
	k1, _ := s.Put(mosaic.SampleGrid(5))
	k2, _ := s.Put(mosaic.SampleGrid(5))
	k3, _ := s.Put(mosaic.SampleGrid(6))
	if k1 != k2 {
		t.Errorf("identical grids got keys %s and %s", k1, k2)
	}
	if k1 == k3 {
		t.Error("different grids share a key")
	}
}

func TestStore_RejectsInvalidGrid(t *testing.T) {
	s := New()
	if _, err := s.Put(mosaic.Grid{{1, 2}, {9}}); err == nil {
		t.Error("Put should reject a jagged grid")
	}
}

func TestStore_NotFound(t *testing.T) {
	s := New()
	if _, err := s.Get("abcdefabcdef"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get: got %v, want ErrNotFound", err)
	}
	if _, _, err := s.Latest(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest: got %v, want ErrNotFound", err)
	}
}

func TestStore_LatestAndResolve(t *testing.T) {
	s := New()
	first, _ := s.Put(mosaic.SampleGrid(4))
	second, _ := s.Put(mosaic.RandomGridSeeded(4, 1))

	key, _, err := s.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if key != second {
		t.Errorf("Latest: got %s, want %s", key, second)
	}

	key, g, err := s.Resolve(first)
	if err != nil || key != first || !reflect.DeepEqual(g, mosaic.SampleGrid(4)) {
		t.Errorf("Resolve(%s): got %s, %v", first, key, err)
	}
	key, _, err = s.Resolve("")
	if err != nil || key != second {
		t.Errorf("Resolve(\"\"): got %s, %v", key, err)
	}
}

func TestStore_Delete(t *testing.T) {
	s := New()
	key, _ := s.Put(mosaic.SampleGrid(3))
	if err := s.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: got %v", err)
	}
	if err := s.Delete("missing"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestStore_Directory(t *testing.T) {
	dir := t.TempDir()
	s, err := NewWithDir(dir)
	if err != nil {
		t.Fatalf("NewWithDir failed: %v", err)
	}
	g := mosaic.RandomGridSeeded(20, 7)
	key, err := s.Put(g)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, key+fileSuffix)); err != nil {
		t.Fatalf("grid file not written: %v", err)
	}

	// A fresh store over the same directory reads the grid back.
	reopened, err := NewWithDir(dir)
	if err != nil {
		t.Fatalf("NewWithDir failed: %v", err)
	}
	got, err := reopened.Get(key)
	if err != nil {
		t.Fatalf("Get from disk failed: %v", err)
	}
	if !reflect.DeepEqual(got, g) {
		t.Error("grid read from disk differs")
	}

	keys, err := reopened.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Errorf("Keys: got %v, want [%s]", keys, key)
	}

	if err := reopened.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, key+fileSuffix)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("grid file still present: %v", err)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	errs := make(chan error, 64)

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key, err := s.Put(mosaic.RandomGridSeeded(10, uint64(i%4)))
			if err != nil {
				errs <- err
				return
			}
			if _, err := s.Get(key); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent access error: %v", err)
	}
	keys, _ := s.Keys()
	if len(keys) != 4 {
		t.Errorf("Keys: got %d, want 4", len(keys))
	}
}
