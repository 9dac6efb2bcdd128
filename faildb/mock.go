package faildb

import (
	"context"
	"sort"

	"github.com/fnproject/quirk"
	"github.com/fnproject/quirk/faildb/internal/faildbutil"
)

type mock struct {
	Records []*quirk.FailureRecord
}

// NewMock creates an in-memory failure store for tests.
func NewMock() quirk.FailureStore {
	return NewMockInit()
}

var _ quirk.FailureStore = &mock{}

// NewMockInit allows seeding records. args helps break tests less if we change stuff
func NewMockInit(args ...interface{}) quirk.FailureStore {
	var mocker mock
	for _, a := range args {
		switch x := a.(type) {
		case []*quirk.FailureRecord:
			mocker.Records = x

		default:
			panic("not accounted for data type sent to mock init. add it")
		}
	}
	return faildbutil.NewValidator(&mocker)
}

func (m *mock) InsertFailure(ctx context.Context, rec *quirk.FailureRecord) error {
	for _, r := range m.Records {
		if r.ID == rec.ID {
			return quirk.ErrRecordExists
		}
	}
	m.Records = append(m.Records, rec.Clone())
	return nil
}

func (m *mock) GetFailure(ctx context.Context, property, recID string) (*quirk.FailureRecord, error) {
	for _, r := range m.Records {
		if r.ID == recID && (property == "" || r.Property == property) {
			return r.Clone(), nil
		}
	}

	return nil, quirk.ErrRecordNotFound
}

type sortR []*quirk.FailureRecord

func (s sortR) Len() int           { return len(s) }
func (s sortR) Less(i, j int) bool { return s[i].ID > s[j].ID } // newest first
func (s sortR) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

func (m *mock) ListFailures(ctx context.Context, property string) ([]*quirk.FailureRecord, error) {
	res := []*quirk.FailureRecord{}
	for _, r := range m.Records {
		if property == "" || r.Property == property {
			res = append(res, r.Clone())
		}
	}
	sort.Sort(sortR(res))
	return res, nil
}

func (m *mock) RemoveFailure(ctx context.Context, property, recID string) error {
	for i, r := range m.Records {
		if r.ID == recID && (property == "" || r.Property == property) {
			m.Records = append(m.Records[:i], m.Records[i+1:]...)
			return nil
		}
	}
	return quirk.ErrRecordNotFound
}

func (m *mock) Close() error {
	return nil
}
