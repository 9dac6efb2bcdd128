//go:build cgo

package sql

import "github.com/mattn/go-sqlite3"

// sqlite3's error codes are only compiled into cgo builds of the driver.
func isSQLiteDuplicateErr(err error) bool {
	sqliteErr, ok := err.(sqlite3.Error)
	if !ok {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
