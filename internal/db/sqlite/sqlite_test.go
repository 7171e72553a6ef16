package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestRecordRoundTrip(t *testing.T) {
	db, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	if _, found, err := GetRecord(ctx, db, 7, "streak"); err != nil || found {
		t.Fatalf("empty store: found=%v err=%v", found, err)
	}
	if err := PutRecord(ctx, db, 7, "streak", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}
	if err := PutRecord(ctx, db, 7, "streak", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("PutRecord overwrite: %v", err)
	}
	got, found, err := GetRecord(ctx, db, 7, "streak")
	if err != nil || !found {
		t.Fatalf("GetRecord: found=%v err=%v", found, err)
	}
	if string(got) != `{"a":2}` {
		t.Fatalf("payload = %s", got)
	}

	_ = PutRecord(ctx, db, 3, "streak", []byte(`{}`))
	_ = PutRecord(ctx, db, 3, "other", []byte(`{}`))
	recs, err := ListRecords(ctx, db, "streak")
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(recs) != 2 || recs[0].UserID != 3 || recs[1].UserID != 7 {
		t.Fatalf("records = %+v", recs)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rewards.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	db.Close()
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
