package db

import (
	"errors"
	"github.com/go-sql-driver/mysql"
	"regexp"
	"strings"
)

var dupKeyRegexp = regexp.MustCompile(`(for key ')((.)+)(')`)

func IsDupKeyErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return strings.Contains(mysqlErr.Error(), "Duplicate")
}

// GetDupKey returns the name of the key a duplicate entry error collided on.
func GetDupKey(err error) string {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return ""
	}
	matches := dupKeyRegexp.FindStringSubmatch(mysqlErr.Error())
	if len(matches) < 3 {
		return ""
	}
	return matches[2]
}
