package firestoredb

import (
	"context"
	"encoding/base64"
	"time"

	"cloud.google.com/go/firestore"
	appDb "github.com/navbryce/next-dorm-blog/db"
	"github.com/navbryce/next-dorm-blog/model"
	"github.com/navbryce/next-dorm-blog/util"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const createdAtField = "createdAt"

type PostDB struct {
	client *firestore.Client
}

func getPostDB(client *firestore.Client) *PostDB {
	return &PostDB{client}
}

type postDocument struct {
	Title     string     `firestore:"title"`
	Content   string     `firestore:"content"`
	CreatedAt time.Time  `firestore:"createdAt"`
	UpdatedAt *time.Time `firestore:"updatedAt,omitempty"`
}

func (pdb *PostDB) GetPosts(ctx context.Context, query *appDb.PostsListQuery) (*appDb.PostsPage, error) {
	q := pdb.client.Collection(query.Collection).
		OrderBy(createdAtField, firestore.Desc).
		Limit(query.Limit)
	if !query.StartAfter.IsZero() {
		id, err := decodeCursor(query.StartAfter)
		if err != nil {
			return nil, err
		}
		// startAfter needs the snapshot of the last visible document
		lastVisible, err := pdb.client.Collection(query.Collection).Doc(id).Get(ctx)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil, appDb.ErrMalformedCursor
			}
			return nil, util.WrapErr("failed to fetch cursor document", err)
		}
		q = q.StartAfter(lastVisible)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	page := &appDb.PostsPage{Posts: []*model.PostSummary{}}
	for {
		snapshot, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, util.WrapErr("failed to iterate posts", err)
		}
		post, err := buildPostFromSnapshot(snapshot)
		if err != nil {
			return nil, err
		}
		page.Posts = append(page.Posts, post)
	}
	if len(page.Posts) > 0 {
		page.Cursor = encodeCursor(page.Posts[len(page.Posts)-1].Id)
	}
	return page, nil
}

func (pdb *PostDB) GetPostById(ctx context.Context, collection string, id string) (*model.PostSummary, error) {
	snapshot, err := pdb.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, appDb.ErrNotFound
		}
		return nil, util.WrapErr("failed to get post", err)
	}
	return buildPostFromSnapshot(snapshot)
}

func (pdb *PostDB) CreatePost(ctx context.Context, req *appDb.CreatePost) (string, error) {
	ref, _, err := pdb.client.Collection(req.Collection).Add(ctx, map[string]interface{}{
		"title":        req.Title,
		"content":      req.Content,
		createdAtField: firestore.ServerTimestamp,
	})
	if err != nil {
		return "", util.WrapErr("failed to add post", err)
	}
	return ref.ID, nil
}

func (pdb *PostDB) UpdatePost(ctx context.Context, req *appDb.UpdatePost) error {
	_, err := pdb.client.Collection(req.Collection).Doc(req.Id).Update(ctx, []firestore.Update{
		{Path: "title", Value: req.Title},
		{Path: "content", Value: req.Content},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return appDb.ErrNotFound
		}
		return util.WrapErr("failed to update post", err)
	}
	return nil
}

func buildPostFromSnapshot(snapshot *firestore.DocumentSnapshot) (*model.PostSummary, error) {
	var doc postDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, util.WrapErr("failed to decode post "+snapshot.Ref.ID, err)
	}
	return buildPostFromDocument(snapshot.Ref.ID, &doc), nil
}

func buildPostFromDocument(id string, doc *postDocument) *model.PostSummary {
	post := &model.PostSummary{
		Id:        id,
		Title:     doc.Title,
		Content:   doc.Content,
		CreatedAt: model.TimestampFromTime(doc.CreatedAt),
	}
	if doc.UpdatedAt != nil {
		updatedAt := model.TimestampFromTime(*doc.UpdatedAt)
		post.UpdatedAt = &updatedAt
	}
	return post
}

func encodeCursor(id string) appDb.Cursor {
	return appDb.Cursor(base64.RawURLEncoding.EncodeToString([]byte(id)))
}

func decodeCursor(cursor appDb.Cursor) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(string(cursor))
	if err != nil || len(raw) == 0 {
		return "", appDb.ErrMalformedCursor
	}
	return string(raw), nil
}
