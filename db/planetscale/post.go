package planetscale

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	db2 "github.com/navbryce/next-dorm-blog/db"
	"github.com/navbryce/next-dorm-blog/model"
	"github.com/navbryce/next-dorm-blog/util"
	"github.com/upper/db/v4"
)

// Collections map 1:1 to tables, so names end up in SQL unquoted.
var collectionNameRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

type PostDB struct {
	sess db.Session
}

func getPostDB(sess db.Session) *PostDB {
	return &PostDB{sess}
}

type flattenedPost struct {
	Id        string       `db:"id"`
	Title     string       `db:"title"`
	Content   string       `db:"content"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}

var postColumns = []interface{}{
	"id",
	"title",
	"content",
	"created_at",
	"updated_at",
}

// mostRecentCursor is the keyset position after the last post of a page.
type mostRecentCursor struct {
	LastDate string `json:"lastDate"`
	LastId   string `json:"lastId"`
}

func (pdb *PostDB) GetPosts(ctx context.Context, query *db2.PostsListQuery) (*db2.PostsPage, error) {
	table, err := tableFor(query.Collection)
	if err != nil {
		return nil, err
	}
	selector := pdb.sess.SQL().
		Select(postColumns...).
		From(table).
		OrderBy("created_at DESC", "id DESC").
		Limit(query.Limit)
	if !query.StartAfter.IsZero() {
		lastDate, lastId, err := decodeCursor(query.StartAfter)
		if err != nil {
			return nil, err
		}
		selector = selector.Where("created_at < ? OR (created_at = ? AND id < ?)", lastDate, lastDate, lastId)
	}

	var flattenedPosts []flattenedPost
	if err := selector.IteratorContext(ctx).All(&flattenedPosts); err != nil {
		return nil, util.WrapErr("failed to select posts", err)
	}

	page := &db2.PostsPage{Posts: make([]*model.PostSummary, len(flattenedPosts))}
	for i := range flattenedPosts {
		page.Posts[i] = buildPostFromFlattened(&flattenedPosts[i])
	}
	if len(flattenedPosts) > 0 {
		last := flattenedPosts[len(flattenedPosts)-1]
		page.Cursor, err = encodeCursor(last.CreatedAt, last.Id)
		if err != nil {
			return nil, err
		}
	}
	return page, nil
}

func (pdb *PostDB) GetPostById(ctx context.Context, collection string, id string) (*model.PostSummary, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}
	var post flattenedPost
	if err := pdb.sess.SQL().
		Select(postColumns...).
		From(table).
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&post); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, db2.ErrNotFound
		}
		return nil, util.WrapErr("failed to select post", err)
	}
	return buildPostFromFlattened(&post), nil
}

func (pdb *PostDB) CreatePost(ctx context.Context, req *db2.CreatePost) (string, error) {
	table, err := tableFor(req.Collection)
	if err != nil {
		return "", err
	}
	postId := uuid.NewString()
	if _, err := pdb.sess.SQL().
		InsertInto(table).
		Columns("id", "title", "content", "created_at").
		Values(postId, req.Title, req.Content, time.Now().UTC()).
		ExecContext(ctx); err != nil {
		return "", buildInsertErr(err)
	}
	return postId, nil
}

func buildInsertErr(err error) error {
	if db2.IsDupKeyErr(err) {
		return util.WrapErr(fmt.Sprintf("post id collision on key %s", db2.GetDupKey(err)), err)
	}
	return util.WrapErr("failed to insert post", err)
}

func (pdb *PostDB) UpdatePost(ctx context.Context, req *db2.UpdatePost) error {
	table, err := tableFor(req.Collection)
	if err != nil {
		return err
	}
	res, err := pdb.sess.SQL().
		Update(table).
		Set(map[string]interface{}{
			"title":      req.Title,
			"content":    req.Content,
			"updated_at": time.Now().UTC(),
		}).
		Where("id = ?", req.Id).
		ExecContext(ctx)
	if err != nil {
		return util.WrapErr("failed to update post", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return db2.ErrNotFound
	}
	return nil
}

func tableFor(collection string) (string, error) {
	if !collectionNameRegexp.MatchString(collection) {
		return "", fmt.Errorf("invalid collection name %q", collection)
	}
	return collection, nil
}

func buildPostFromFlattened(post *flattenedPost) *model.PostSummary {
	summary := &model.PostSummary{
		Id:        post.Id,
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: model.TimestampFromTime(post.CreatedAt),
	}
	if post.UpdatedAt.Valid {
		updatedAt := model.TimestampFromTime(post.UpdatedAt.Time)
		summary.UpdatedAt = &updatedAt
	}
	return summary
}

func encodeCursor(lastDate time.Time, lastId string) (db2.Cursor, error) {
	raw, err := json.Marshal(&mostRecentCursor{
		LastDate: util.FormatTime(lastDate.UTC()),
		LastId:   lastId,
	})
	if err != nil {
		return "", err
	}
	return db2.Cursor(base64.RawURLEncoding.EncodeToString(raw)), nil
}

func decodeCursor(cursor db2.Cursor) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(string(cursor))
	if err != nil {
		return time.Time{}, "", db2.ErrMalformedCursor
	}
	var decoded mostRecentCursor
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded.LastId == "" {
		return time.Time{}, "", db2.ErrMalformedCursor
	}
	lastDate, err := util.ParseTime(decoded.LastDate)
	if err != nil {
		return time.Time{}, "", db2.ErrMalformedCursor
	}
	return lastDate, decoded.LastId, nil
}
