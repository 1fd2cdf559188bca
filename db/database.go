package db

import (
	"context"
	"errors"

	"github.com/navbryce/next-dorm-blog/model"
)

var (
	ErrNotFound        = errors.New("post not found")
	ErrMalformedCursor = errors.New("malformed cursor")
)

// Cursor is an opaque position within an ordered result set. Only the
// backend that produced a cursor knows how to read it.
type Cursor string

func (c Cursor) IsZero() bool {
	return c == ""
}

type Database interface {
	PostCollection
	Close() error
}

// PostsListQuery pages through a collection ordered by createdAt descending.
type PostsListQuery struct {
	Collection string
	Limit      int
	// StartAfter is exclusive. Zero starts from the newest post
	StartAfter Cursor
}

type PostsPage struct {
	Posts []*model.PostSummary
	// Cursor points at the last post in Posts. Zero when Posts is empty
	Cursor Cursor
}

type CreatePost struct {
	Collection string
	Title      string
	Content    string
}

type UpdatePost struct {
	Collection string
	Id         string
	Title      string
	Content    string
}

type PostCollection interface {
	GetPosts(ctx context.Context, query *PostsListQuery) (*PostsPage, error)
	GetPostById(ctx context.Context, collection string, id string) (*model.PostSummary, error)
	CreatePost(ctx context.Context, req *CreatePost) (postId string, err error)
	UpdatePost(ctx context.Context, req *UpdatePost) error
}
