package imagestore

import (
	"bytes"
	"errors"
	"testing"
)

func TestSaveLoadDelete(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	payload := []byte("fake image bytes")
	ref, err := store.Save(payload)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if ref == "" {
		t.Fatal("Save() returned an empty reference")
	}

	got, err := store.Load(ref)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Load() = %q, want %q", got, payload)
	}

	if err := store.Delete(ref); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ref); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after delete error = %v, want ErrNotFound", err)
	}

	// Deleting again is fine
	if err := store.Delete(ref); err != nil {
		t.Errorf("repeated Delete() error = %v", err)
	}
}

func TestDistinctRefs(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	first, err := store.Save([]byte("one"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	second, err := store.Save([]byte("two"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if first == second {
		t.Fatal("two saves produced the same reference")
	}

	got, err := store.Load(first)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != "one" {
		t.Errorf("Load(first) = %q, want one", got)
	}
}

func TestPathLikeRefsAreRejected(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	refs := []string{
		"",
		"../escape",
		"..",
		"a/b",
		`a\b`,
		"/etc/passwd",
	}
	for _, ref := range refs {
		if _, err := store.Load(ref); !errors.Is(err, ErrNotFound) {
			t.Errorf("Load(%q) error = %v, want ErrNotFound", ref, err)
		}
		if err := store.Delete(ref); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete(%q) error = %v, want ErrNotFound", ref, err)
		}
	}
}

func TestUnknownRef(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := store.Load("0a0a0a0a-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}
