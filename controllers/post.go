package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/navbryce/next-dorm-blog/db"
	"github.com/navbryce/next-dorm-blog/model"
	"github.com/navbryce/next-dorm-blog/util"
)

const MaxTitleLength = 200

type PostController struct {
	db         db.PostCollection
	collection string
	pageSize   int
}

func NewPostController(db db.PostCollection, collection string, pageSize int) *PostController {
	return &PostController{
		db:         db,
		collection: collection,
		pageSize:   pageSize,
	}
}

type PostsPage struct {
	Posts   []*model.PostSummary `json:"posts"`
	Cursor  db.Cursor            `json:"cursor,omitempty"`
	HasMore bool                 `json:"hasMore"`
}

// GetPosts pages like the blog view but reports storage failures to the caller.
func (pc *PostController) GetPosts(c context.Context, cursor db.Cursor) (*PostsPage, *util.HTTPError) {
	page, err := pc.db.GetPosts(c, &db.PostsListQuery{
		Collection: pc.collection,
		Limit:      pc.pageSize,
		StartAfter: cursor,
	})
	if err != nil {
		return nil, buildStorageHTTPErr(err)
	}
	return &PostsPage{
		Posts:   page.Posts,
		Cursor:  page.Cursor,
		HasMore: len(page.Posts) == pc.pageSize,
	}, nil
}

func (pc *PostController) GetPostById(c context.Context, id string) (*model.PostSummary, *util.HTTPError) {
	post, err := pc.db.GetPostById(c, pc.collection, id)
	if err != nil {
		return nil, buildStorageHTTPErr(err)
	}
	return post, nil
}

func (pc *PostController) CreatePost(c context.Context, title string, content string) (string, *util.HTTPError) {
	title, content, httpErr := validatePost(title, content)
	if httpErr != nil {
		return "", httpErr
	}
	id, err := pc.db.CreatePost(c, &db.CreatePost{
		Collection: pc.collection,
		Title:      title,
		Content:    content,
	})
	if err != nil {
		return "", buildStorageHTTPErr(err)
	}
	return id, nil
}

func (pc *PostController) UpdatePost(c context.Context, id string, title string, content string) *util.HTTPError {
	title, content, httpErr := validatePost(title, content)
	if httpErr != nil {
		return httpErr
	}
	if err := pc.db.UpdatePost(c, &db.UpdatePost{
		Collection: pc.collection,
		Id:         id,
		Title:      title,
		Content:    content,
	}); err != nil {
		return buildStorageHTTPErr(err)
	}
	return nil
}

// validatePost returns the sanitized title and content.
func validatePost(title string, content string) (string, string, *util.HTTPError) {
	title = strings.TrimSpace(util.SanitizePlainText(title))
	content = strings.TrimSpace(util.SanitizePlainText(content))
	if title == "" {
		return "", "", &util.HTTPError{Status: http.StatusBadRequest, Message: "title must not be empty"}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", "", &util.HTTPError{Status: http.StatusBadRequest, Message: "title must be at most 200 characters"}
	}
	if content == "" {
		return "", "", &util.HTTPError{Status: http.StatusBadRequest, Message: "content must not be empty"}
	}
	return title, content, nil
}

func buildStorageHTTPErr(err error) *util.HTTPError {
	switch {
	case errors.Is(err, db.ErrNotFound):
		httpErr := util.NotFoundHTTPErr
		return &httpErr
	case errors.Is(err, db.ErrMalformedCursor):
		httpErr := util.MalformedCursorHTTPErr
		return &httpErr
	default:
		return util.BuildDbHTTPErr(err)
	}
}
