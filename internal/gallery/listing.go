package gallery

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/lib/logger/sl"
)

const (
	PageSize        = 20
	DefaultDebounce = 300 * time.Millisecond
)

// ListingState is an immutable snapshot of the listing. Items must not be
// modified by the receiver.
type ListingState struct {
	Search   string
	Category string
	Sort     models.SortMode
	Page     int
	Items    []models.Wallpaper
	HasMore  bool
	Loading  bool
	Epoch    uint64
	Version  uint64
}

// ListingController owns the paginated wallpaper feed. Changing the search
// term, category or sort order starts a new epoch: rows are cleared and page
// 0 is fetched again. Completions from an older epoch are discarded.
type ListingController struct {
	log      *slog.Logger
	gw       Gateway
	notifier Notifier
	debounce time.Duration

	mu       sync.Mutex
	state    ListingState
	cancel   context.CancelFunc
	inflight bool
	timer    *time.Timer
	closed   bool

	wg  sync.WaitGroup
	hub hub[ListingState]
}

type ListingOption func(*ListingController)

func WithDebounce(d time.Duration) ListingOption {
	return func(c *ListingController) { c.debounce = d }
}

func NewListingController(log *slog.Logger, gw Gateway, notifier Notifier, opts ...ListingOption) *ListingController {
	c := &ListingController{
		log:      log,
		gw:       gw,
		notifier: notifier,
		debounce: DefaultDebounce,
		state: ListingState{
			Category: models.CategoryAll,
			Sort:     models.SortRecent,
			HasMore:  true,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe calls fn with every committed snapshot.
func (c *ListingController) Subscribe(fn func(ListingState)) (unsubscribe func()) {
	return c.hub.subscribe(fn)
}

func (c *ListingController) State() ListingState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Reload starts a new epoch with the current filters.
func (c *ListingController) Reload(ctx context.Context) {
	c.update(ctx, func(s *ListingState) {})
}

func (c *ListingController) SetSearch(ctx context.Context, term string) {
	c.update(ctx, func(s *ListingState) { s.Search = term })
}

func (c *ListingController) SetCategory(ctx context.Context, category string) {
	if category == "" {
		category = models.CategoryAll
	}
	c.update(ctx, func(s *ListingState) { s.Category = category })
}

func (c *ListingController) SetSort(ctx context.Context, sort models.SortMode) {
	if !sort.Valid() {
		sort = models.SortRecent
	}
	c.update(ctx, func(s *ListingState) { s.Sort = sort })
}

// SetFilters changes search, category and sort in a single epoch.
func (c *ListingController) SetFilters(ctx context.Context, search, category string, sort models.SortMode) {
	if category == "" {
		category = models.CategoryAll
	}
	if !sort.Valid() {
		sort = models.SortRecent
	}
	c.update(ctx, func(s *ListingState) {
		s.Search = search
		s.Category = category
		s.Sort = sort
	})
}

// SetSearchDebounced applies term once no other call has arrived for the
// debounce period.
func (c *ListingController) SetSearchDebounced(ctx context.Context, term string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.SetSearch(ctx, term)
	})
}

// LoadMore appends the next page. It does nothing while a fetch is in flight
// or when the last page was short.
func (c *ListingController) LoadMore(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.inflight || !c.state.HasMore {
		c.mu.Unlock()
		return
	}
	c.fetchLocked(ctx, c.state.Page+1)
	snap := c.commitLocked()
	c.mu.Unlock()

	c.hub.publish(snap.Version, snap)
}

// Wait blocks until every started fetch has completed.
func (c *ListingController) Wait() {
	c.wg.Wait()
}

// Close stops the debounce timer and cancels the in-flight fetch.
func (c *ListingController) Close() {
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	c.wg.Wait()
}

func (c *ListingController) update(ctx context.Context, mutate func(*ListingState)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	mutate(&c.state)
	c.state.Epoch++
	c.state.Page = 0
	c.state.Items = nil
	c.state.HasMore = true

	c.fetchLocked(ctx, 0)
	snap := c.commitLocked()
	c.mu.Unlock()

	c.hub.publish(snap.Version, snap)
}

func (c *ListingController) fetchLocked(ctx context.Context, page int) {
	const op = "gallery.ListingController.fetch"

	epoch := c.state.Epoch
	q := models.WallpaperQuery{
		Search:   strings.TrimSpace(c.state.Search),
		Category: c.state.Category,
		Sort:     c.state.Sort,
		Page:     page,
		PageSize: PageSize,
	}

	fctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.inflight = true
	c.state.Loading = true

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()

		rows, err := c.gw.ListWallpapers(fctx, q)

		c.mu.Lock()
		if c.closed || epoch != c.state.Epoch {
			c.mu.Unlock()
			c.log.Debug("discarding stale page",
				slog.String("op", op),
				slog.Uint64("epoch", epoch),
				slog.Int("page", page),
			)
			return
		}

		c.inflight = false
		c.cancel = nil
		c.state.Loading = false

		if err != nil {
			c.state.HasMore = false
			snap := c.commitLocked()
			c.mu.Unlock()

			c.log.Error("failed to fetch wallpapers", slog.String("op", op), sl.Err(err))
			c.notifier.Error(NoticeFetchFailed)
			c.hub.publish(snap.Version, snap)
			return
		}

		if page == 0 {
			c.state.Items = rows
		} else {
			items := make([]models.Wallpaper, 0, len(c.state.Items)+len(rows))
			items = append(items, c.state.Items...)
			c.state.Items = append(items, rows...)
		}
		c.state.Page = page
		c.state.HasMore = len(rows) >= PageSize

		snap := c.commitLocked()
		c.mu.Unlock()

		c.hub.publish(snap.Version, snap)
	}()
}

func (c *ListingController) commitLocked() ListingState {
	c.state.Version++
	return c.snapshotLocked()
}

func (c *ListingController) snapshotLocked() ListingState {
	snap := c.state
	snap.Items = append([]models.Wallpaper(nil), c.state.Items...)
	return snap
}
