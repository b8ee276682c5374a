package mysql

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

const (
	errDuplicateEntry  = 1062
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
	errOutOfRange      = 1264
	errDataTooLong     = 1406
	errValueOutOfRange = 1690
)

func IsDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == errDeadlock || mysqlErr.Number == errLockWaitTimeout
	}
	return false
}

func IsDuplicateEntryError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == errDuplicateEntry
	}
	return false
}

// IsDataRangeError reports a value that does not fit its column.
func IsDataRangeError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case errOutOfRange, errDataTooLong, errValueOutOfRange:
			return true
		}
	}
	return false
}
