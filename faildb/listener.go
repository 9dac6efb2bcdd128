package faildb

import (
	"golang.org/x/net/context"

	"github.com/fnproject/quirk"
	"github.com/fnproject/quirk/common"
	"github.com/sirupsen/logrus"
)

// SaveListener persists each shrunk counterexample as it is found, so the
// next run can replay it before spending trials on fresh values. Attach it
// via Config.Listeners.
type SaveListener struct {
	fs quirk.FailureStore
}

// NewSaveListener wraps a store as a run listener.
func NewSaveListener(fs quirk.FailureStore) *SaveListener {
	return &SaveListener{fs: fs}
}

func (l *SaveListener) BeforeRun(ctx context.Context, rep *quirk.RunReport) error {
	return nil
}

func (l *SaveListener) AfterRun(ctx context.Context, rep *quirk.RunReport) error {
	return nil
}

func (l *SaveListener) OnFailure(ctx context.Context, rec *quirk.FailureRecord) error {
	err := l.fs.InsertFailure(ctx, rec)
	if err == quirk.ErrRecordExists {
		common.Logger(ctx).WithFields(logrus.Fields{"record_id": rec.ID}).Debug("failure already stored")
		return nil
	}
	if err == nil {
		common.Logger(ctx).WithFields(logrus.Fields{"record_id": rec.ID, "property": rec.Property}).Debug("failure record stored")
	}
	return err
}

// LoadKnown turns every stored failure for a property into replay entries
// for Config.Replay, newest first.
func LoadKnown(ctx context.Context, fs quirk.FailureStore, property string) ([]quirk.KnownFailure, error) {
	recs, err := fs.ListFailures(ctx, property)
	if err != nil {
		return nil, err
	}
	known := make([]quirk.KnownFailure, 0, len(recs))
	for _, rec := range recs {
		known = append(known, rec.Known())
	}
	return known, nil
}

// Known fetches a single stored failure for Config.Replay. Asking for a
// record that was stored under a different property returns
// quirk.ErrReplayMismatch rather than ErrRecordNotFound.
func Known(ctx context.Context, fs quirk.FailureStore, property, recID string) (quirk.KnownFailure, error) {
	rec, err := fs.GetFailure(ctx, property, recID)
	if err == quirk.ErrRecordNotFound && property != "" {
		if _, anyErr := fs.GetFailure(ctx, "", recID); anyErr == nil {
			return quirk.KnownFailure{}, quirk.ErrReplayMismatch
		}
	}
	if err != nil {
		return quirk.KnownFailure{}, err
	}
	return rec.Known(), nil
}
