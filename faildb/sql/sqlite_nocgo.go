//go:build !cgo

package sql

// without cgo the sqlite3 driver is a stub that cannot open connections,
// so no sqlite3 errors can ever reach us.
func isSQLiteDuplicateErr(err error) bool {
	return false
}
