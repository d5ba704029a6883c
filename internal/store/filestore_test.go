package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testDocument(id string) Document {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return Document{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Current: Snapshot{
			ID:        NewID(),
			Timestamp: now,
			Name:      "First draft",
			Resume: Resume{
				Header: &Header{FullName: "Avery Quinn", Title: "Engineer"},
				Sections: []Section{
					{
						ID:     NewID(),
						Type:   SectionSkills,
						Column: ColumnLeft,
						Title:  "Skills",
						Content: SectionContent{
							Skills: []SkillItem{{Name: "Go"}, {Name: "SQL"}},
						},
					},
				},
			},
		},
		History: []Snapshot{},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	doc := testDocument(NewID())
	saved, err := fs.Save(ctx, doc, 0)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Version != 1 {
		t.Fatalf("expected version 1 after first save, got %d", saved.Version)
	}

	loaded, err := fs.Load(ctx, doc.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Current.Name != "First draft" {
		t.Fatalf("expected current name to survive round trip, got %q", loaded.Current.Name)
	}
	if len(loaded.Current.Resume.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(loaded.Current.Resume.Sections))
	}
	if got := loaded.Current.Resume.Sections[0].Content.ItemCount(); got != 2 {
		t.Fatalf("expected 2 skill items, got %d", got)
	}
}

func TestLoadMissingDocument(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if _, err := fs.Load(context.Background(), "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPathTraversalRejected(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	for _, id := range []string{"../etc/passwd", "a/b", `a\b`, ""} {
		if _, err := fs.Load(context.Background(), id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("id %q: expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestVersionConflictLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	doc := testDocument(NewID())
	saved, err := fs.Save(ctx, doc, 0)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Stale writer: still believes the document is at version 0.
	stale := saved
	stale.Current.Name = "clobbered"
	if _, err := fs.Save(ctx, stale, 0); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	loaded, err := fs.Load(ctx, doc.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Current.Name != "First draft" {
		t.Fatalf("conflicting save modified the document: %q", loaded.Current.Name)
	}

	// The in-sequence writer succeeds.
	next := saved
	next.Current.Name = "Second draft"
	updated, err := fs.Save(ctx, next, saved.Version)
	if err != nil {
		t.Fatalf("save at current version: %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("expected version 2, got %d", updated.Version)
	}
}

func TestCreateConflictsWhenFileExists(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	doc := testDocument(NewID())
	if _, err := fs.Save(ctx, doc, 0); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := fs.Save(ctx, doc, 0); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict on duplicate create, got %v", err)
	}
}

func TestDeleteRemovesFile(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	doc := testDocument(NewID())
	if _, err := fs.Save(ctx, doc, 0); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := fs.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, doc.ID+".json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected file to be gone, got %v", err)
	}
	if err := fs.Delete(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListSkipsCorruptEntries(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := fs.Save(ctx, testDocument(NewID()), 0); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	docs, err := fs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
}
