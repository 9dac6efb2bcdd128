package quirk

import (
	"context"
	"errors"
	"time"

	"github.com/fnproject/quirk/id"
)

var (
	ErrRecordNotFound        = errors.New("Failure record not found")
	ErrRecordExists          = errors.New("Failure record already exists")
	ErrMissingRecord         = errors.New("Missing failure record")
	ErrRecordMissingID       = errors.New("Failure record is missing an id")
	ErrRecordMissingProperty = errors.New("Failure record is missing a property name")
	ErrRecordInvalidChoices  = errors.New("Failure record choices do not parse")
)

// FailureRecord is the persisted form of a shrunk counterexample: enough to
// replay the failure later (property, seed, size, choices) plus the rendered
// value and diagnostic for humans reading the store directly.
type FailureRecord struct {
	ID         string `json:"id" db:"id"`
	Property   string `json:"property" db:"property"`
	Seed       int64  `json:"seed" db:"seed"`
	Size       int    `json:"size" db:"size"`
	Steps      int    `json:"steps" db:"steps"`
	Choices    string `json:"choices" db:"choices"`
	Value      string `json:"value" db:"value"`
	Diagnostic string `json:"diagnostic" db:"diagnostic"`

	// CreatedAt is RFC3339Nano in UTC. Kept as text so every backing
	// store round-trips it byte for byte.
	CreatedAt string `json:"created_at" db:"created_at"`
}

// SetDefaults fills the id and timestamp on a fresh record.
func (r *FailureRecord) SetDefaults() {
	if r.ID == "" {
		r.ID = id.New().String()
	}
	if r.CreatedAt == "" {
		r.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
}

// Validate checks the fields a store relies on.
func (r *FailureRecord) Validate() error {
	if r.ID == "" {
		return ErrRecordMissingID
	}
	if r.Property == "" {
		return ErrRecordMissingProperty
	}
	if _, err := r.DecodeChoices(); err != nil {
		return ErrRecordInvalidChoices
	}
	return nil
}

func (r *FailureRecord) Clone() *FailureRecord {
	c := *r
	return &c
}

// DecodeChoices parses the stored choice sequence.
func (r *FailureRecord) DecodeChoices() (*Choices, error) {
	var c Choices
	if err := c.UnmarshalText([]byte(r.Choices)); err != nil {
		return nil, err
	}
	return &c, nil
}

// Known converts the record into a replay entry for Config.Replay. Records
// whose choices no longer parse yield an empty sequence, which replays to
// the generator's minimal value and is harmless.
func (r *FailureRecord) Known() KnownFailure {
	c, err := r.DecodeChoices()
	if err != nil {
		c = NewChoices(nil)
	}
	return KnownFailure{Choices: c, Size: r.Size}
}

// CreatedTime parses CreatedAt, zero time if unset or malformed.
func (r *FailureRecord) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FailureStore persists failure records between runs. Implementations live
// in the faildb package; the engine only ever talks to this interface.
type FailureStore interface {
	// InsertFailure stores a new record. ErrRecordExists if the id is taken.
	InsertFailure(ctx context.Context, rec *FailureRecord) error

	// GetFailure fetches one record. ErrRecordNotFound if absent.
	GetFailure(ctx context.Context, property, recID string) (*FailureRecord, error)

	// ListFailures returns records for a property, newest first. An empty
	// property matches every record.
	ListFailures(ctx context.Context, property string) ([]*FailureRecord, error)

	// RemoveFailure deletes one record. ErrRecordNotFound if absent.
	RemoveFailure(ctx context.Context, property, recID string) error

	Close() error
}

// RunListener observes run boundaries. An error from BeforeRun vetoes the
// run; errors from the other hooks are logged and dropped.
type RunListener interface {
	BeforeRun(ctx context.Context, rep *RunReport) error
	AfterRun(ctx context.Context, rep *RunReport) error
	OnFailure(ctx context.Context, rec *FailureRecord) error
}
