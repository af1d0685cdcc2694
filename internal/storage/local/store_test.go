package local

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestNewStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store == nil {
		t.Fatal("NewStore() returned nil")
	}
	if store.basePath != tmpDir {
		t.Errorf("basePath = %v, want %v", store.basePath, tmpDir)
	}
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	newDir := filepath.Join(tmpDir, "subdir", "nested")

	store, err := NewStore(newDir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store == nil {
		t.Fatal("NewStore() returned nil")
	}

	info, err := os.Stat(newDir)
	if err != nil {
		t.Fatalf("directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected directory, got file")
	}
}

func TestStore_Save_Load(t *testing.T) {
	tmpDir := t.TempDir()
	store, _ := NewStore(tmpDir)

	type testData struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	original := testData{Name: "test", Value: 42}

	if err := store.Save("collection", "item1", original); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var loaded testData
	if err := store.Load("collection", "item1", &loaded); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Name != original.Name {
		t.Errorf("Name = %v, want %v", loaded.Name, original.Name)
	}
	if loaded.Value != original.Value {
		t.Errorf("Value = %v, want %v", loaded.Value, original.Value)
	}
}

func TestStore_Load_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	store, _ := NewStore(tmpDir)

	var data struct{}
	err := store.Load("collection", "nonexistent", &data)
	if err != ErrNotFound {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestStore_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	store, _ := NewStore(tmpDir)

	data := map[string]string{"key": "value"}
	if err := store.Save("collection", "to-delete", data); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := store.Delete("collection", "to-delete"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	err := store.Load("collection", "to-delete", &data)
	if err != ErrNotFound {
		t.Error("Load() should return ErrNotFound after deletion")
	}
}

func TestStore_Delete_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	store, _ := NewStore(tmpDir)

	err := store.Delete("collection", "nonexistent")
	if err != ErrNotFound {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestStore_List(t *testing.T) {
	tmpDir := t.TempDir()
	store, _ := NewStore(tmpDir)

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("item%d", i)
		if err := store.Save("collection", id, map[string]int{"i": i}); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}

	ids, err := store.List("collection")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("len(ids) = %d, want 3", len(ids))
	}
}

func TestStore_List_EmptyCollection(t *testing.T) {
	tmpDir := t.TempDir()
	store, _ := NewStore(tmpDir)

	ids, err := store.List("never-written")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("len(ids) = %d, want 0", len(ids))
	}
}

func TestStore_Exists(t *testing.T) {
	tmpDir := t.TempDir()
	store, _ := NewStore(tmpDir)

	if store.Exists("collection", "item") {
		t.Error("Exists() = true before save")
	}

	if err := store.Save("collection", "item", map[string]string{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if !store.Exists("collection", "item") {
		t.Error("Exists() = false after save")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	tmpDir := t.TempDir()
	store, _ := NewStore(tmpDir)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("item%d", n)
			if err := store.Save("concurrent", id, map[string]int{"n": n}); err != nil {
				t.Errorf("Save(%s) error = %v", id, err)
			}
			var data map[string]int
			if err := store.Load("concurrent", id, &data); err != nil {
				t.Errorf("Load(%s) error = %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	ids, err := store.List("concurrent")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ids) != 10 {
		t.Errorf("len(ids) = %d, want 10", len(ids))
	}
}
