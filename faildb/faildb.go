// Package faildb persists shrunk counterexamples between runs. Stores are
// picked by URL scheme; records come back as quirk.KnownFailure entries that
// Config.Replay tries before any fresh trials.
package faildb

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fnproject/quirk"
	"github.com/fnproject/quirk/common"
	"github.com/fnproject/quirk/faildb/cache"
	"github.com/fnproject/quirk/faildb/internal/faildbutil"
	"github.com/fnproject/quirk/faildb/sql"
	"github.com/sirupsen/logrus"
)

// EnvDBCache turns on the read-through record cache when set to any
// non-empty value.
const EnvDBCache = "QUIRK_DB_CACHE"

// New creates a FailureStore for the given URL, e.g. sqlite3://quirk.db,
// postgres://user@host/quirk or mysql://user@host/quirk. The store comes
// wrapped with argument validation and trace spans.
func New(ctx context.Context, dbURL string) (quirk.FailureStore, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"url": dbURL}).Fatal("bad DB URL")
	}
	logrus.WithFields(logrus.Fields{"db": u.Scheme}).Debug("creating new failure store")
	var fs quirk.FailureStore
	switch u.Scheme {
	case "sqlite3", "postgres", "pgx", "mysql":
		fs, err = sql.New(ctx, u)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("db type not supported %v", u.Scheme)
	}
	if common.GetEnv(EnvDBCache, "") != "" {
		fs = cache.Wrap(fs)
	}
	return faildbutil.NewValidator(faildbutil.MetricFS(fs)), nil
}
