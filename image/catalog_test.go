package image

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestCatalogRecordAndGet(t *testing.T) {
	c, err := OpenCatalog(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("OpenCatalog: %v", err)
	}
	defer c.Close()

	e := CatalogEntry{
		SnapshotID:  "snap-1",
		Path:        "/tmp/snap-1.gaps",
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
		ObjectCount: 12,
	}
	if err := c.Record(e); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := c.Get("snap-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Path != e.Path || got.ObjectCount != 12 {
		t.Errorf("entry mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(e.CreatedAt) {
		t.Errorf("timestamp mismatch: %v vs %v", got.CreatedAt, e.CreatedAt)
	}

	if _, err := c.Get("missing"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestCatalogListNewestFirst(t *testing.T) {
	c, err := OpenCatalog(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		err := c.Record(CatalogEntry{
			SnapshotID: id,
			Path:       "/tmp/" + id,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	entries, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("listed %d entries", len(entries))
	}
	if entries[0].SnapshotID != "new" || entries[2].SnapshotID != "old" {
		t.Errorf("order: %v, %v, %v", entries[0].SnapshotID, entries[1].SnapshotID, entries[2].SnapshotID)
	}
}

func TestCatalogRemove(t *testing.T) {
	c, err := OpenCatalog(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Record(CatalogEntry{SnapshotID: "snap", Path: "p", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := c.Remove("snap"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := c.Get("snap"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Error("entry survived removal")
	}
	if err := c.Remove("snap"); err != nil {
		t.Errorf("removing absent entry: %v", err)
	}
}
