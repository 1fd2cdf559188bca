package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/navbryce/next-dorm-blog/config"
	"github.com/navbryce/next-dorm-blog/db"
	"github.com/navbryce/next-dorm-blog/model"
)

type BlogOpts struct {
	Collection string
	PageSize   int
}

// WithDefaults fills in the default collection and page size.
func (o *BlogOpts) WithDefaults() BlogOpts {
	opts := BlogOpts{
		Collection: config.DefaultPostsCollection,
		PageSize:   config.DefaultPageSize,
	}
	if o == nil {
		return opts
	}
	if o.Collection != "" {
		opts.Collection = o.Collection
	}
	if o.PageSize > 0 {
		opts.PageSize = o.PageSize
	}
	return opts
}

// BlogState is a snapshot of what the blog page shows.
type BlogState struct {
	Posts   []*model.PostSummary
	Cursor  db.Cursor
	Loading bool
	HasMore bool
}

// BlogView holds the blog listing: posts fetched so far, the cursor after the
// last of them, and the loading/has-more flags. Observers are called after
// every committed change.
//
// Nothing stops two fetches from overlapping; their results land in whichever
// order they complete.
type BlogView struct {
	collection db.PostCollection
	opts       BlogOpts

	mu        sync.Mutex
	posts     []*model.PostSummary
	cursor    db.Cursor
	loading   bool
	hasMore   bool
	observers []func(BlogState)
}

func NewBlogView(collection db.PostCollection, opts *BlogOpts) *BlogView {
	return &BlogView{
		collection: collection,
		opts:       opts.WithDefaults(),
		posts:      []*model.PostSummary{},
		hasMore:    true,
	}
}

// Subscribe registers fn to be called with the new state after each change.
func (bv *BlogView) Subscribe(fn func(BlogState)) {
	bv.mu.Lock()
	defer bv.mu.Unlock()
	bv.observers = append(bv.observers, fn)
}

func (bv *BlogView) State() BlogState {
	bv.mu.Lock()
	defer bv.mu.Unlock()
	return bv.stateLocked()
}

// Resume continues paging from a cursor produced by an earlier page.
func (bv *BlogView) Resume(cursor db.Cursor) {
	bv.update(func() {
		bv.cursor = cursor
		bv.hasMore = !cursor.IsZero()
	})
}

// LoadFirstPage replaces the posts with the newest page.
func (bv *BlogView) LoadFirstPage(ctx context.Context) {
	bv.update(func() { bv.loading = true })

	page, err := bv.collection.GetPosts(ctx, &db.PostsListQuery{
		Collection: bv.opts.Collection,
		Limit:      bv.opts.PageSize,
	})
	if err != nil {
		slog.Error("error fetching posts", "collection", bv.opts.Collection, "error", err)
		bv.update(func() { bv.loading = false })
		return
	}

	bv.update(func() {
		bv.posts = append([]*model.PostSummary{}, page.Posts...)
		bv.cursor = page.Cursor
		bv.hasMore = len(page.Posts) == bv.opts.PageSize
		bv.loading = false
	})
}

// LoadNextPage appends the page after the recorded cursor. It does nothing
// when no cursor is recorded or the last page came back short.
func (bv *BlogView) LoadNextPage(ctx context.Context) {
	bv.mu.Lock()
	cursor, hasMore := bv.cursor, bv.hasMore
	bv.mu.Unlock()
	if cursor.IsZero() || !hasMore {
		return
	}

	bv.update(func() { bv.loading = true })

	page, err := bv.collection.GetPosts(ctx, &db.PostsListQuery{
		Collection: bv.opts.Collection,
		Limit:      bv.opts.PageSize,
		StartAfter: cursor,
	})
	if err != nil {
		slog.Error("error fetching more posts", "collection", bv.opts.Collection, "error", err)
		bv.update(func() { bv.loading = false })
		return
	}

	bv.update(func() {
		bv.posts = append(bv.posts, page.Posts...)
		bv.cursor = page.Cursor
		bv.hasMore = len(page.Posts) == bv.opts.PageSize
		bv.loading = false
	})
}

func (bv *BlogView) update(mutate func()) {
	bv.mu.Lock()
	mutate()
	state := bv.stateLocked()
	observers := append([]func(BlogState){}, bv.observers...)
	bv.mu.Unlock()

	for _, observer := range observers {
		observer(state)
	}
}

func (bv *BlogView) stateLocked() BlogState {
	return BlogState{
		Posts:   append([]*model.PostSummary{}, bv.posts...),
		Cursor:  bv.cursor,
		Loading: bv.loading,
		HasMore: bv.hasMore,
	}
}
