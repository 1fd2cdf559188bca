package model

import (
	"time"
)

// Timestamp is a server timestamp as stored by the document database.
type Timestamp struct {
	Seconds     int64 `json:"seconds" msgpack:"s"`
	Nanoseconds int32 `json:"nanoseconds" msgpack:"n"`
}

func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp{
		Seconds:     t.Unix(),
		Nanoseconds: int32(t.Nanosecond()),
	}
}

func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanoseconds))
}

// Before reports whether ts is strictly older than other.
func (ts Timestamp) Before(other Timestamp) bool {
	if ts.Seconds != other.Seconds {
		return ts.Seconds < other.Seconds
	}
	return ts.Nanoseconds < other.Nanoseconds
}

// PostSummary is a blog post as listed on the blog page.
type PostSummary struct {
	Id        string     `json:"id" msgpack:"id"`
	Title     string     `json:"title" msgpack:"title"`
	Content   string     `json:"content" msgpack:"content"`
	CreatedAt Timestamp  `json:"createdAt" msgpack:"createdAt"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty" msgpack:"updatedAt,omitempty"`
}
