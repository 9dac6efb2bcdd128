package faildbtest

import (
	"bytes"
	"context"
	"log"
	"reflect"
	"testing"
	"time"

	"github.com/fnproject/quirk"
	"github.com/sirupsen/logrus"
)

func setLogBuffer() *bytes.Buffer {
	var buf bytes.Buffer
	buf.WriteByte('\n')
	logrus.SetOutput(&buf)
	log.SetOutput(&buf)
	return &buf
}

// Record returns a valid failure record for tests to insert. recID doubles as
// the creation order, stores list newest (highest) id first.
func Record(recID, property string) *quirk.FailureRecord {
	return &quirk.FailureRecord{
		ID:         recID,
		Property:   property,
		Seed:       42,
		Size:       100,
		Steps:      17,
		Choices:    "0:100:50,0:1:1",
		Value:      "50",
		Diagnostic: "Property falsified for 50",
		CreatedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// Test runs every quirk.FailureStore implementation through the same suite.
// The store must be empty when passed in.
func Test(t *testing.T, fs quirk.FailureStore) {
	buf := setLogBuffer()

	ctx := context.Background()

	t.Run("insert", func(t *testing.T) {
		err := fs.InsertFailure(ctx, nil)
		if err != quirk.ErrMissingRecord {
			t.Log(buf.String())
			t.Fatalf("Test InsertFailure(nil): expected error `%v`, but it was `%v`", quirk.ErrMissingRecord, err)
		}

		rec := Record("", "insert.prop")
		err = fs.InsertFailure(ctx, rec)
		if err != quirk.ErrRecordMissingID {
			t.Log(buf.String())
			t.Fatalf("Test InsertFailure without id: expected error `%v`, but it was `%v`", quirk.ErrRecordMissingID, err)
		}

		rec = Record("0001", "")
		err = fs.InsertFailure(ctx, rec)
		if err != quirk.ErrRecordMissingProperty {
			t.Log(buf.String())
			t.Fatalf("Test InsertFailure without property: expected error `%v`, but it was `%v`", quirk.ErrRecordMissingProperty, err)
		}

		rec = Record("0001", "insert.prop")
		rec.Choices = "not a choice sequence"
		err = fs.InsertFailure(ctx, rec)
		if err != quirk.ErrRecordInvalidChoices {
			t.Log(buf.String())
			t.Fatalf("Test InsertFailure with bad choices: expected error `%v`, but it was `%v`", quirk.ErrRecordInvalidChoices, err)
		}

		rec = Record("0001", "insert.prop")
		err = fs.InsertFailure(ctx, rec)
		if err != nil {
			t.Log(buf.String())
			t.Fatalf("Test InsertFailure: error when storing new record: %s", err)
		}

		err = fs.InsertFailure(ctx, rec)
		if err != quirk.ErrRecordExists {
			t.Log(buf.String())
			t.Fatalf("Test InsertFailure duplicated: expected error `%v`, but it was `%v`", quirk.ErrRecordExists, err)
		}
	})

	t.Run("get", func(t *testing.T) {
		rec := Record("0002", "get.prop")
		err := fs.InsertFailure(ctx, rec)
		if err != nil {
			t.Log(buf.String())
			t.Fatalf("Test GetFailure: error when storing new record: %s", err)
		}

		_, err = fs.GetFailure(ctx, "get.prop", "")
		if err != quirk.ErrRecordMissingID {
			t.Log(buf.String())
			t.Fatalf("Test GetFailure without id: expected error `%v`, but it was `%v`", quirk.ErrRecordMissingID, err)
		}

		_, err = fs.GetFailure(ctx, "get.prop", "missing")
		if err != quirk.ErrRecordNotFound {
			t.Log(buf.String())
			t.Fatalf("Test GetFailure missing: expected error `%v`, but it was `%v`", quirk.ErrRecordNotFound, err)
		}

		got, err := fs.GetFailure(ctx, "get.prop", "0002")
		if err != nil {
			t.Log(buf.String())
			t.Fatalf("Test GetFailure: unexpected error `%v`", err)
		}
		if !reflect.DeepEqual(*got, *rec) {
			t.Log(buf.String())
			t.Fatalf("Test GetFailure: expected to get:\n%v\nbut got:\n%v", rec, got)
		}

		// empty property matches any property
		got, err = fs.GetFailure(ctx, "", "0002")
		if err != nil {
			t.Log(buf.String())
			t.Fatalf("Test GetFailure any property: unexpected error `%v`", err)
		}
		if got.ID != "0002" {
			t.Log(buf.String())
			t.Fatalf("Test GetFailure any property: expected id `0002` but got `%v`", got.ID)
		}

		_, err = fs.GetFailure(ctx, "other.prop", "0002")
		if err != quirk.ErrRecordNotFound {
			t.Log(buf.String())
			t.Fatalf("Test GetFailure wrong property: expected error `%v`, but it was `%v`", quirk.ErrRecordNotFound, err)
		}
	})

	t.Run("list", func(t *testing.T) {
		for _, rec := range []*quirk.FailureRecord{
			Record("0003", "list.prop"),
			Record("0004", "list.prop"),
			Record("0005", "list.other"),
			Record("0006", "list.prop"),
		} {
			err := fs.InsertFailure(ctx, rec)
			if err != nil {
				t.Log(buf.String())
				t.Fatalf("Test ListFailures: error when storing new record: %s", err)
			}
		}

		recs, err := fs.ListFailures(ctx, "list.prop")
		if err != nil {
			t.Log(buf.String())
			t.Fatalf("Test ListFailures: unexpected error `%v`", err)
		}
		if len(recs) != 3 {
			t.Log(buf.String())
			t.Fatalf("Test ListFailures: expected 3 records but got %d", len(recs))
		}
		for i, want := range []string{"0006", "0004", "0003"} {
			if recs[i].ID != want {
				t.Log(buf.String())
				t.Fatalf("Test ListFailures: expected id `%v` at %d but got `%v`", want, i, recs[i].ID)
			}
		}

		recs, err = fs.ListFailures(ctx, "list.missing")
		if err != nil {
			t.Log(buf.String())
			t.Fatalf("Test ListFailures empty: unexpected error `%v`", err)
		}
		if len(recs) != 0 {
			t.Log(buf.String())
			t.Fatalf("Test ListFailures empty: expected 0 records but got %d", len(recs))
		}

		recs, err = fs.ListFailures(ctx, "")
		if err != nil {
			t.Log(buf.String())
			t.Fatalf("Test ListFailures all: unexpected error `%v`", err)
		}
		if len(recs) < 4 {
			t.Log(buf.String())
			t.Fatalf("Test ListFailures all: expected at least 4 records but got %d", len(recs))
		}
	})

	t.Run("remove", func(t *testing.T) {
		rec := Record("0007", "remove.prop")
		err := fs.InsertFailure(ctx, rec)
		if err != nil {
			t.Log(buf.String())
			t.Fatalf("Test RemoveFailure: error when storing new record: %s", err)
		}

		err = fs.RemoveFailure(ctx, "remove.prop", "")
		if err != quirk.ErrRecordMissingID {
			t.Log(buf.String())
			t.Fatalf("Test RemoveFailure without id: expected error `%v`, but it was `%v`", quirk.ErrRecordMissingID, err)
		}

		err = fs.RemoveFailure(ctx, "remove.prop", "missing")
		if err != quirk.ErrRecordNotFound {
			t.Log(buf.String())
			t.Fatalf("Test RemoveFailure missing: expected error `%v`, but it was `%v`", quirk.ErrRecordNotFound, err)
		}

		err = fs.RemoveFailure(ctx, "other.prop", "0007")
		if err != quirk.ErrRecordNotFound {
			t.Log(buf.String())
			t.Fatalf("Test RemoveFailure wrong property: expected error `%v`, but it was `%v`", quirk.ErrRecordNotFound, err)
		}

		err = fs.RemoveFailure(ctx, "remove.prop", "0007")
		if err != nil {
			t.Log(buf.String())
			t.Fatalf("Test RemoveFailure: unexpected error `%v`", err)
		}

		_, err = fs.GetFailure(ctx, "remove.prop", "0007")
		if err != quirk.ErrRecordNotFound {
			t.Log(buf.String())
			t.Fatalf("Test RemoveFailure: expected removed record to be gone, got error `%v`", err)
		}
	})
}
