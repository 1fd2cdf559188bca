package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	appDb "github.com/navbryce/next-dorm-blog/db"
	"github.com/navbryce/next-dorm-blog/model"
)

func seeded(n int) *MemoryDB {
	mdb := GetDatabase()
	for i := 1; i <= n; i++ {
		mdb.Seed("blogPosts", &model.PostSummary{
			Id:        fmt.Sprintf("p%02d", i),
			Title:     fmt.Sprintf("post %d", i),
			CreatedAt: model.Timestamp{Seconds: int64(i * 100)},
		})
	}
	return mdb
}

func TestGetPostsPagesNewestFirst(t *testing.T) {
	mdb := seeded(7)
	ctx := context.Background()

	first, err := mdb.GetPosts(ctx, &appDb.PostsListQuery{Collection: "blogPosts", Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Posts) != 5 || first.Posts[0].Id != "p07" || first.Posts[4].Id != "p03" {
		t.Fatalf("unexpected first page %v", ids(first.Posts))
	}

	second, err := mdb.GetPosts(ctx, &appDb.PostsListQuery{Collection: "blogPosts", Limit: 5, StartAfter: first.Cursor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(second.Posts); len(got) != 2 || got[0] != "p02" || got[1] != "p01" {
		t.Fatalf("unexpected second page %v", got)
	}

	third, err := mdb.GetPosts(ctx, &appDb.PostsListQuery{Collection: "blogPosts", Limit: 5, StartAfter: second.Cursor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(third.Posts) != 0 || !third.Cursor.IsZero() {
		t.Errorf("expected an empty last page, got %v", ids(third.Posts))
	}
}

func TestGetPostsUnknownCursor(t *testing.T) {
	_, err := seeded(2).GetPosts(context.Background(), &appDb.PostsListQuery{Collection: "blogPosts", Limit: 5, StartAfter: "nope"})
	if !errors.Is(err, appDb.ErrMalformedCursor) {
		t.Errorf("expected ErrMalformedCursor, got %v", err)
	}
}

func TestCreateAndUpdatePost(t *testing.T) {
	mdb := seeded(1)
	now := time.Unix(10_000, 0)
	mdb.now = func() time.Time { return now }
	ctx := context.Background()

	id, err := mdb.CreatePost(ctx, &appDb.CreatePost{Collection: "blogPosts", Title: "new", Content: "fresh"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	page, _ := mdb.GetPosts(ctx, &appDb.PostsListQuery{Collection: "blogPosts", Limit: 5})
	if page.Posts[0].Id != id {
		t.Errorf("expected new post first, got %v", ids(page.Posts))
	}

	now = now.Add(time.Hour)
	if err := mdb.UpdatePost(ctx, &appDb.UpdatePost{Collection: "blogPosts", Id: id, Title: "edited", Content: "changed"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	post, err := mdb.GetPostById(ctx, "blogPosts", id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Title != "edited" || post.UpdatedAt == nil || post.UpdatedAt.Seconds != now.Unix() {
		t.Errorf("unexpected post %+v", post)
	}

	if err := mdb.UpdatePost(ctx, &appDb.UpdatePost{Collection: "blogPosts", Id: "missing"}); !errors.Is(err, appDb.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := mdb.GetPostById(ctx, "blogPosts", "missing"); !errors.Is(err, appDb.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func ids(posts []*model.PostSummary) []string {
	result := make([]string, len(posts))
	for i, post := range posts {
		result[i] = post.Id
	}
	return result
}

func TestSeedSamples(t *testing.T) {
	mdb := GetDatabase()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mdb.now = func() time.Time { return now }
	mdb.SeedSamples("blogPosts", 7)

	page, err := mdb.GetPosts(context.Background(), &appDb.PostsListQuery{Collection: "blogPosts", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Posts) != 7 {
		t.Fatalf("expected 7 posts, got %d", len(page.Posts))
	}
	if page.Posts[0].Id != "sample-07" || page.Posts[0].CreatedAt != model.TimestampFromTime(now) {
		t.Errorf("expected newest sample created now, got %s at %v", page.Posts[0].Id, page.Posts[0].CreatedAt)
	}
	long := 0
	for _, post := range page.Posts {
		if post.Title == "" || post.Content == "" {
			t.Errorf("sample %s is missing a title or content", post.Id)
		}
		if len(post.Content) > 100 {
			long++
		}
	}
	if long == 0 || long == len(page.Posts) {
		t.Errorf("expected a mix of short and long samples, got %d long", long)
	}
}
