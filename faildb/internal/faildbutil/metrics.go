package faildbutil

import (
	"context"

	"go.opencensus.io/trace"

	"github.com/fnproject/quirk"
)

// MetricFS wraps a FailureStore so that every operation runs under a trace
// span named after it.
func MetricFS(fs quirk.FailureStore) quirk.FailureStore {
	return &metricfs{fs}
}

type metricfs struct {
	fs quirk.FailureStore
}

func (m *metricfs) InsertFailure(ctx context.Context, rec *quirk.FailureRecord) error {
	ctx, span := trace.StartSpan(ctx, "fdb_insert_failure")
	defer span.End()
	return m.fs.InsertFailure(ctx, rec)
}

func (m *metricfs) GetFailure(ctx context.Context, property, recID string) (*quirk.FailureRecord, error) {
	ctx, span := trace.StartSpan(ctx, "fdb_get_failure")
	defer span.End()
	return m.fs.GetFailure(ctx, property, recID)
}

func (m *metricfs) ListFailures(ctx context.Context, property string) ([]*quirk.FailureRecord, error) {
	ctx, span := trace.StartSpan(ctx, "fdb_list_failures")
	defer span.End()
	return m.fs.ListFailures(ctx, property)
}

func (m *metricfs) RemoveFailure(ctx context.Context, property, recID string) error {
	ctx, span := trace.StartSpan(ctx, "fdb_remove_failure")
	defer span.End()
	return m.fs.RemoveFailure(ctx, property, recID)
}

// Close calls Close on the underlying FailureStore
func (m *metricfs) Close() error {
	return m.fs.Close()
}
