package util

import (
	"time"
)

func ParseTime(val string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, val)
}

func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
