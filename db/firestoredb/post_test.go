package firestoredb

import (
	"errors"
	"testing"
	"time"

	appDb "github.com/navbryce/next-dorm-blog/db"
)

func TestCursorEncoding(t *testing.T) {
	cursor := encodeCursor("Xk2pQ9aB")
	if cursor.IsZero() {
		t.Fatal("expected a non-zero cursor")
	}
	id, err := decodeCursor(cursor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "Xk2pQ9aB" {
		t.Errorf("expected Xk2pQ9aB, got %s", id)
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	for _, raw := range []appDb.Cursor{"!!!", "a"} {
		if _, err := decodeCursor(raw); !errors.Is(err, appDb.ErrMalformedCursor) {
			t.Errorf("cursor %q: expected ErrMalformedCursor, got %v", raw, err)
		}
	}
}

func TestBuildPostFromDocument(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)
	post := buildPostFromDocument("abc", &postDocument{Title: "t", Content: "c", CreatedAt: created})
	if post.Id != "abc" || post.CreatedAt.Seconds != created.Unix() || post.CreatedAt.Nanoseconds != 6 {
		t.Errorf("unexpected post %+v", post)
	}
	if post.UpdatedAt != nil {
		t.Error("expected no updatedAt")
	}

	updated := created.Add(time.Hour)
	post = buildPostFromDocument("abc", &postDocument{CreatedAt: created, UpdatedAt: &updated})
	if post.UpdatedAt == nil || post.UpdatedAt.Seconds != updated.Unix() {
		t.Errorf("unexpected updatedAt %+v", post.UpdatedAt)
	}
}
