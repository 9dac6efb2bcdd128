package faildbutil

import (
	"context"

	"github.com/fnproject/quirk"
)

// FailureStore is a copy of quirk.FailureStore, with additional comments on
// parameter guarantees.
type FailureStore interface {
	// rec will never be nil and rec.ID, rec.Property will never be empty.
	// rec.Choices will always parse.
	InsertFailure(ctx context.Context, rec *quirk.FailureRecord) error

	// recID will never be empty. property may be empty.
	GetFailure(ctx context.Context, property, recID string) (*quirk.FailureRecord, error)

	ListFailures(ctx context.Context, property string) ([]*quirk.FailureRecord, error)

	// recID will never be empty. property may be empty.
	RemoveFailure(ctx context.Context, property, recID string) error

	Close() error
}

// NewValidator returns a quirk.FailureStore which validates certain arguments
// before delegating to fs.
func NewValidator(fs FailureStore) quirk.FailureStore {
	return &validator{fs}
}

type validator struct {
	fs FailureStore
}

func (v *validator) InsertFailure(ctx context.Context, rec *quirk.FailureRecord) error {
	if rec == nil {
		return quirk.ErrMissingRecord
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	return v.fs.InsertFailure(ctx, rec)
}

func (v *validator) GetFailure(ctx context.Context, property, recID string) (*quirk.FailureRecord, error) {
	if recID == "" {
		return nil, quirk.ErrRecordMissingID
	}
	return v.fs.GetFailure(ctx, property, recID)
}

func (v *validator) ListFailures(ctx context.Context, property string) ([]*quirk.FailureRecord, error) {
	return v.fs.ListFailures(ctx, property)
}

func (v *validator) RemoveFailure(ctx context.Context, property, recID string) error {
	if recID == "" {
		return quirk.ErrRecordMissingID
	}
	return v.fs.RemoveFailure(ctx, property, recID)
}

// Close calls Close on the underlying FailureStore
func (v *validator) Close() error {
	return v.fs.Close()
}
