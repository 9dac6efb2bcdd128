package sql

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fnproject/quirk"
	"github.com/fnproject/quirk/common"
	"github.com/go-sql-driver/mysql"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// this aims to be an ANSI-SQL compliant package that uses only question
// mark syntax for var placement, leaning on sqlx to make compatible all
// queries to the actual underlying datastore.
//
// currently tested and working are postgres, mysql and sqlite3.

var tables = [...]string{`CREATE TABLE IF NOT EXISTS failure_records (
	id varchar(256) NOT NULL,
	property varchar(256) NOT NULL,
	seed bigint NOT NULL,
	size int NOT NULL,
	steps int NOT NULL,
	choices text NOT NULL,
	value text NOT NULL,
	diagnostic text NOT NULL,
	created_at varchar(256),
	PRIMARY KEY (id)
);`,
}

const (
	recordSelector = `SELECT id, property, seed, size, steps, choices, value, diagnostic, created_at FROM failure_records`
)

type sqlStore struct {
	db *sqlx.DB
}

// New will open the db specified by url, create any tables necessary
// and return a quirk.FailureStore safe for concurrent usage.
func New(ctx context.Context, url *url.URL) (quirk.FailureStore, error) {
	return newDS(ctx, url)
}

// for test methods, return concrete type, but don't expose
func newDS(ctx context.Context, url *url.URL) (*sqlStore, error) {
	driver := url.Scheme

	log := common.Logger(ctx)
	// driver must be one of these for sqlx to work, double check:
	switch driver {
	case "postgres", "pgx", "mysql", "sqlite3":
	default:
		return nil, errors.New("invalid db driver, refer to the code")
	}

	if driver == "sqlite3" {
		// make all the dirs so we can make the file..
		dir := filepath.Dir(url.Path)
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, err
		}
	}

	uri := url.String()
	if driver != "postgres" {
		// postgres seems to need this as a prefix in lib/pq, everyone else wants it stripped of scheme
		uri = strings.TrimPrefix(url.String(), url.Scheme+"://")
	}

	sqldb, err := sql.Open(driver, uri)
	if err != nil {
		log.WithFields(logrus.Fields{"url": common.MaskPassword(url)}).WithError(err).Error("couldn't open db")
		return nil, err
	}

	db := sqlx.NewDb(sqldb, driver)
	// force a connection and test that it worked
	err = pingWithRetry(ctx, db)
	if err != nil {
		log.WithFields(logrus.Fields{"url": common.MaskPassword(url)}).WithError(err).Error("couldn't ping db")
		return nil, err
	}

	maxIdleConns := 256 // TODO we need to strip this out of the URL probably
	db.SetMaxIdleConns(maxIdleConns)
	log.WithFields(logrus.Fields{"max_idle_connections": maxIdleConns, "faildb": driver, "db": common.MaskPassword(url)}).Info("failure store dialed")

	sdb := &sqlStore{db: db}

	switch driver {
	case "sqlite3":
		db.SetMaxOpenConns(1)
	}
	for _, v := range tables {
		_, err = db.ExecContext(ctx, v)
		if err != nil {
			return nil, err
		}
	}

	return sdb, nil
}

// transient dial errors get retried with backoff, anything else fails fast.
func pingWithRetry(ctx context.Context, db *sqlx.DB) (err error) {
	backoff := common.NewBackOff(common.BackOffConfig{
		MaxRetries: 10,
		Interval:   500,
		MaxDelay:   4000,
		MinDelay:   250,
	})

	for {
		err = db.PingContext(ctx)
		if err == nil {
			return nil
		}
		if !common.IsTemporary(err) {
			return err
		}

		delay, ok := backoff.NextBackOff()
		if !ok {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		}
	}
}

// clear is for tests only, be careful, it deletes all records.
func (ds *sqlStore) clear() error {
	return ds.Tx(func(tx *sqlx.Tx) error {
		query := tx.Rebind(`DELETE FROM failure_records`)
		_, err := tx.Exec(query)
		return err
	})
}

func (ds *sqlStore) Tx(f func(*sqlx.Tx) error) error {
	tx, err := ds.db.Beginx()
	if err != nil {
		return err
	}
	err = f(tx)
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (ds *sqlStore) InsertFailure(ctx context.Context, rec *quirk.FailureRecord) error {
	query := ds.db.Rebind(`INSERT INTO failure_records (
		id,
		property,
		seed,
		size,
		steps,
		choices,
		value,
		diagnostic,
		created_at
	)
	VALUES (
		:id,
		:property,
		:seed,
		:size,
		:steps,
		:choices,
		:value,
		:diagnostic,
		:created_at
	);`)
	_, err := ds.db.NamedExecContext(ctx, query, rec)
	if err != nil {
		switch err := err.(type) {
		case *mysql.MySQLError:
			if err.Number == 1062 {
				return quirk.ErrRecordExists
			}
		case *pq.Error:
			if err.Code == "23505" {
				return quirk.ErrRecordExists
			}
		}
		if isSQLiteDuplicateErr(err) {
			return quirk.ErrRecordExists
		}
		return err
	}

	return nil
}

func (ds *sqlStore) GetFailure(ctx context.Context, property, recID string) (*quirk.FailureRecord, error) {
	query := fmt.Sprintf(`%s WHERE id=?`, recordSelector)
	args := []interface{}{recID}
	if property != "" {
		query += ` AND property=?`
		args = append(args, property)
	}
	query = ds.db.Rebind(query)
	row := ds.db.QueryRowxContext(ctx, query, args...)

	var rec quirk.FailureRecord
	err := row.StructScan(&rec)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, quirk.ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (ds *sqlStore) ListFailures(ctx context.Context, property string) ([]*quirk.FailureRecord, error) {
	res := []*quirk.FailureRecord{}
	filterQuery, args := buildFilterRecordQuery(property)
	query := fmt.Sprintf("%s %s", recordSelector, filterQuery)
	query = ds.db.Rebind(query)
	rows, err := ds.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rec quirk.FailureRecord
		err := rows.StructScan(&rec)
		if err != nil {
			continue
		}
		res = append(res, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (ds *sqlStore) RemoveFailure(ctx context.Context, property, recID string) error {
	query := `DELETE FROM failure_records WHERE id=?`
	args := []interface{}{recID}
	if property != "" {
		query += ` AND property=?`
		args = append(args, property)
	}
	res, err := ds.db.ExecContext(ctx, ds.db.Rebind(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return quirk.ErrRecordNotFound
	}
	return nil
}

func buildFilterRecordQuery(property string) (string, []interface{}) {
	var b bytes.Buffer
	var args []interface{}

	where := func(colOp, val string) {
		if val != "" {
			args = append(args, val)
			if len(args) == 1 {
				fmt.Fprintf(&b, `WHERE %s`, colOp)
			} else {
				fmt.Fprintf(&b, ` AND %s`, colOp)
			}
		}
	}

	where("property=?", property)

	// record ids are flake ids, so id order is creation order
	fmt.Fprintf(&b, ` ORDER BY id DESC`)

	return b.String(), args
}

// Close closes the database, releasing any open resources.
func (ds *sqlStore) Close() error {
	return ds.db.Close()
}
