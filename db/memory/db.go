// Package memory keeps posts in process memory. It backs local development
// runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	appDb "github.com/navbryce/next-dorm-blog/db"
	"github.com/navbryce/next-dorm-blog/model"
)

type MemoryDB struct {
	mu          sync.RWMutex
	collections map[string][]*model.PostSummary
	nextId      int
	now         func() time.Time
}

func GetDatabase() *MemoryDB {
	return &MemoryDB{
		collections: make(map[string][]*model.PostSummary),
		now:         time.Now,
	}
}

// Seed inserts posts as-is, keeping each collection ordered newest first.
func (mdb *MemoryDB) Seed(collection string, posts ...*model.PostSummary) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	for _, post := range posts {
		copied := *post
		mdb.collections[collection] = append(mdb.collections[collection], &copied)
	}
	mdb.sortLocked(collection)
}

// SeedSamples adds n placeholder posts an hour apart, the newest created now.
func (mdb *MemoryDB) SeedSamples(collection string, n int) {
	now := mdb.now()
	posts := make([]*model.PostSummary, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, &model.PostSummary{
			Id:        fmt.Sprintf("sample-%02d", i+1),
			Title:     fmt.Sprintf("Sample post %d", i+1),
			Content:   strings.Repeat(fmt.Sprintf("Placeholder text for sample post %d. ", i+1), 1+i%4),
			CreatedAt: model.TimestampFromTime(now.Add(-time.Duration(n-1-i) * time.Hour)),
		})
	}
	mdb.Seed(collection, posts...)
}

func (mdb *MemoryDB) GetPosts(ctx context.Context, query *appDb.PostsListQuery) (*appDb.PostsPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	posts := mdb.collections[query.Collection]
	start := 0
	if !query.StartAfter.IsZero() {
		idx := indexOf(posts, string(query.StartAfter))
		if idx < 0 {
			return nil, appDb.ErrMalformedCursor
		}
		start = idx + 1
	}
	end := start + query.Limit
	if end > len(posts) {
		end = len(posts)
	}

	page := &appDb.PostsPage{Posts: []*model.PostSummary{}}
	for _, post := range posts[start:end] {
		copied := *post
		page.Posts = append(page.Posts, &copied)
	}
	if len(page.Posts) > 0 {
		page.Cursor = appDb.Cursor(page.Posts[len(page.Posts)-1].Id)
	}
	return page, nil
}

func (mdb *MemoryDB) GetPostById(ctx context.Context, collection string, id string) (*model.PostSummary, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()
	posts := mdb.collections[collection]
	idx := indexOf(posts, id)
	if idx < 0 {
		return nil, appDb.ErrNotFound
	}
	copied := *posts[idx]
	return &copied, nil
}

func (mdb *MemoryDB) CreatePost(ctx context.Context, req *appDb.CreatePost) (string, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	mdb.nextId++
	id := fmt.Sprintf("post-%d", mdb.nextId)
	mdb.collections[req.Collection] = append(mdb.collections[req.Collection], &model.PostSummary{
		Id:        id,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: model.TimestampFromTime(mdb.now()),
	})
	mdb.sortLocked(req.Collection)
	return id, nil
}

func (mdb *MemoryDB) UpdatePost(ctx context.Context, req *appDb.UpdatePost) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	posts := mdb.collections[req.Collection]
	idx := indexOf(posts, req.Id)
	if idx < 0 {
		return appDb.ErrNotFound
	}
	updatedAt := model.TimestampFromTime(mdb.now())
	posts[idx].Title = req.Title
	posts[idx].Content = req.Content
	posts[idx].UpdatedAt = &updatedAt
	return nil
}

func (mdb *MemoryDB) Close() error {
	return nil
}

// newest first, ties broken by id descending like the SQL backend
func (mdb *MemoryDB) sortLocked(collection string) {
	posts := mdb.collections[collection]
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt != posts[j].CreatedAt {
			return posts[j].CreatedAt.Before(posts[i].CreatedAt)
		}
		return posts[i].Id > posts[j].Id
	})
}

func indexOf(posts []*model.PostSummary, id string) int {
	for i, post := range posts {
		if post.Id == id {
			return i
		}
	}
	return -1
}
