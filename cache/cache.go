package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/navbryce/next-dorm-blog/config"
	"github.com/navbryce/next-dorm-blog/db"
	"github.com/navbryce/next-dorm-blog/model"
	"github.com/navbryce/next-dorm-blog/util"
	"github.com/valkey-io/valkey-go"
	"github.com/vmihailenco/msgpack/v5"
)

// PageRecord is the cached form of a db.PostsPage.
type PageRecord struct {
	Posts  []*model.PostSummary `msgpack:"posts"`
	Cursor string               `msgpack:"cursor"`
}

// PostCache is a read-through page cache in front of a db.PostCollection.
// Writes go straight to the collection and evict the newest page.
type PostCache struct {
	db.PostCollection
	client valkey.Client
	ttl    time.Duration
}

// New creates a new Valkey backed cache around collection.
func New(cfg config.Config, collection db.PostCollection) (*PostCache, error) {
	var tlsConfig *tls.Config // nil by default
	if cfg.ValkeyTLSEnabled {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: false, // Validate the server's certificate
		}
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{cfg.ValkeyAddress},
		TLSConfig:   tlsConfig,
	})
	if err != nil {
		return nil, util.WrapErr("failed to create valkey client", err)
	}

	return newPostCache(client, collection, cfg.CacheTTL), nil
}

func newPostCache(client valkey.Client, collection db.PostCollection, ttl time.Duration) *PostCache {
	return &PostCache{
		PostCollection: collection,
		client:         client,
		ttl:            ttl,
	}
}

func pageKey(query *db.PostsListQuery) string {
	return fmt.Sprintf("posts:%s:%d:%s", query.Collection, query.Limit, query.StartAfter)
}

func (pc *PostCache) GetPosts(ctx context.Context, query *db.PostsListQuery) (*db.PostsPage, error) {
	key := pageKey(query)
	page, err := pc.readPage(ctx, key)
	if err != nil {
		// a broken cache must not take the blog down
		slog.Warn("failed to read cached page", "key", key, "error", err)
	} else if page != nil {
		slog.Debug("cache hit", "key", key)
		return page, nil
	}

	page, err = pc.PostCollection.GetPosts(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := pc.savePage(ctx, key, page); err != nil {
		slog.Warn("failed to cache page", "key", key, "error", err)
	}
	return page, nil
}

func (pc *PostCache) CreatePost(ctx context.Context, req *db.CreatePost) (string, error) {
	id, err := pc.PostCollection.CreatePost(ctx, req)
	if err != nil {
		return "", err
	}
	pc.evictNewest(ctx, req.Collection)
	return id, nil
}

func (pc *PostCache) UpdatePost(ctx context.Context, req *db.UpdatePost) error {
	if err := pc.PostCollection.UpdatePost(ctx, req); err != nil {
		return err
	}
	pc.evictNewest(ctx, req.Collection)
	return nil
}

func (pc *PostCache) Close() {
	pc.client.Close()
}

// readPage returns nil without error on a cache miss.
func (pc *PostCache) readPage(ctx context.Context, key string) (*db.PostsPage, error) {
	cmd := pc.client.B().Get().Key(key).Build()
	resp := pc.client.Do(ctx, cmd)
	if err := resp.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, util.WrapErr("failed to execute get command", err)
	}

	bytes, err := resp.AsBytes()
	if err != nil {
		return nil, util.WrapErr("failed to convert response to bytes", err)
	}
	return decodePage(bytes)
}

func (pc *PostCache) savePage(ctx context.Context, key string, page *db.PostsPage) error {
	bytes, err := encodePage(page)
	if err != nil {
		return err
	}
	cmd := pc.client.B().Set().Key(key).Value(valkey.BinaryString(bytes)).Ex(pc.ttl).Build()
	if err := pc.client.Do(ctx, cmd).Error(); err != nil {
		return util.WrapErr("failed to set key", err)
	}
	return nil
}

// evictNewest drops cached first pages of a collection. Later pages expire with the TTL.
func (pc *PostCache) evictNewest(ctx context.Context, collection string) {
	pattern := fmt.Sprintf("posts:%s:*:", collection)
	var cursor uint64
	for {
		cmd := pc.client.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build()
		entry, err := pc.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			slog.Warn("failed to scan cached pages", "collection", collection, "error", err)
			return
		}
		if len(entry.Elements) > 0 {
			del := pc.client.B().Del().Key(entry.Elements...).Build()
			if err := pc.client.Do(ctx, del).Error(); err != nil {
				slog.Warn("failed to evict cached pages", "collection", collection, "error", err)
			}
		}
		cursor = entry.Cursor
		if cursor == 0 {
			return
		}
	}
}

func encodePage(page *db.PostsPage) ([]byte, error) {
	bytes, err := msgpack.Marshal(&PageRecord{
		Posts:  page.Posts,
		Cursor: string(page.Cursor),
	})
	if err != nil {
		return nil, util.WrapErr("failed to marshal page", err)
	}
	return bytes, nil
}

func decodePage(bytes []byte) (*db.PostsPage, error) {
	var record PageRecord
	if err := msgpack.Unmarshal(bytes, &record); err != nil {
		return nil, util.WrapErr("failed to unmarshal page", err)
	}
	if record.Posts == nil {
		record.Posts = []*model.PostSummary{}
	}
	return &db.PostsPage{
		Posts:  record.Posts,
		Cursor: db.Cursor(record.Cursor),
	}, nil
}
