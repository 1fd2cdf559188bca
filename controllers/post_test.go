package controllers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/navbryce/next-dorm-blog/db/memory"
)

func TestCreatePostValidation(t *testing.T) {
	tests := []struct {
		name           string
		title          string
		content        string
		expectedStatus int
	}{
		{name: "valid post", title: "Hello", content: "World"},
		{name: "empty title", title: "  ", content: "World", expectedStatus: http.StatusBadRequest},
		{name: "title of only markup", title: "<script>alert(1)</script>", content: "World", expectedStatus: http.StatusBadRequest},
		{name: "empty content", title: "Hello", content: "", expectedStatus: http.StatusBadRequest},
		{name: "title too long", title: strings.Repeat("t", MaxTitleLength+1), content: "World", expectedStatus: http.StatusBadRequest},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			controller := NewPostController(memory.GetDatabase(), "blogPosts", 5)
			_, httpErr := controller.CreatePost(context.Background(), test.title, test.content)
			if test.expectedStatus == 0 {
				if httpErr != nil {
					t.Errorf("unexpected error %v", httpErr)
				}
				return
			}
			if httpErr == nil || httpErr.Status != test.expectedStatus {
				t.Errorf("expected status %d, got %v", test.expectedStatus, httpErr)
			}
		})
	}
}

func TestCreatePostSanitizesContent(t *testing.T) {
	controller := NewPostController(memory.GetDatabase(), "blogPosts", 5)
	ctx := context.Background()

	id, httpErr := controller.CreatePost(ctx, "Hello", `<p onclick="steal()">hi</p><script>alert(1)</script>`)
	if httpErr != nil {
		t.Fatalf("unexpected error %v", httpErr)
	}
	post, httpErr := controller.GetPostById(ctx, id)
	if httpErr != nil {
		t.Fatalf("unexpected error %v", httpErr)
	}
	if strings.Contains(post.Content, "script") || strings.Contains(post.Content, "onclick") {
		t.Errorf("expected content to be sanitized, got %q", post.Content)
	}
	if !strings.Contains(post.Content, "hi") {
		t.Errorf("expected text to survive sanitizing, got %q", post.Content)
	}
}

func TestUpdateAndGetMissingPost(t *testing.T) {
	controller := NewPostController(memory.GetDatabase(), "blogPosts", 5)
	ctx := context.Background()

	if httpErr := controller.UpdatePost(ctx, "missing", "t", "c"); httpErr == nil || httpErr.Status != http.StatusNotFound {
		t.Errorf("expected 404, got %v", httpErr)
	}
	if _, httpErr := controller.GetPostById(ctx, "missing"); httpErr == nil || httpErr.Status != http.StatusNotFound {
		t.Errorf("expected 404, got %v", httpErr)
	}
}

func TestGetPosts(t *testing.T) {
	mdb := memory.GetDatabase()
	controller := NewPostController(mdb, "blogPosts", 2)
	ctx := context.Background()
	for _, title := range []string{"one", "two", "three"} {
		if _, httpErr := controller.CreatePost(ctx, title, "body"); httpErr != nil {
			t.Fatalf("unexpected error %v", httpErr)
		}
	}

	first, httpErr := controller.GetPosts(ctx, "")
	if httpErr != nil {
		t.Fatalf("unexpected error %v", httpErr)
	}
	if len(first.Posts) != 2 || !first.HasMore || first.Cursor.IsZero() {
		t.Fatalf("unexpected first page %+v", first)
	}

	second, httpErr := controller.GetPosts(ctx, first.Cursor)
	if httpErr != nil {
		t.Fatalf("unexpected error %v", httpErr)
	}
	if len(second.Posts) != 1 || second.HasMore {
		t.Errorf("unexpected second page %+v", second)
	}

	if _, httpErr := controller.GetPosts(ctx, "bogus"); httpErr == nil || httpErr.Status != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad cursor, got %v", httpErr)
	}
}
