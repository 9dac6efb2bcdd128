package faildb

import (
	"context"
	"os"
	"testing"

	"github.com/fnproject/quirk"
	"github.com/fnproject/quirk/faildb/internal/faildbtest"
)

func TestMockStore(t *testing.T) {
	fs := NewMock()
	faildbtest.Test(t, fs)
	if err := fs.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}

func TestMockInitSeeded(t *testing.T) {
	rec := faildbtest.Record("0001", "seeded.prop")
	fs := NewMockInit([]*quirk.FailureRecord{rec})

	got, err := fs.GetFailure(context.Background(), "seeded.prop", "0001")
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if got.ID != rec.ID || got.Property != rec.Property {
		t.Fatalf("expected seeded record %v, got %v", rec, got)
	}
}

func TestNewSqlite(t *testing.T) {
	os.RemoveAll("sqlite_test_dir")
	defer os.RemoveAll("sqlite_test_dir")

	fs, err := New(context.Background(), "sqlite3://sqlite_test_dir")
	if err != nil {
		t.Fatalf("unexpected error opening sqlite store: %v", err)
	}
	defer fs.Close()

	// the returned store validates arguments
	if err := fs.InsertFailure(context.Background(), nil); err != quirk.ErrMissingRecord {
		t.Fatalf("expected %v, got %v", quirk.ErrMissingRecord, err)
	}
}

func TestNewRejectsUnknownScheme(t *testing.T) {
	_, err := New(context.Background(), "bolt://nope")
	if err == nil {
		t.Fatal("expected error for unsupported db scheme")
	}
}
