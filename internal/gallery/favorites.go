package gallery

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"pg_wallpaper/internal/lib/logger/sl"
)

// FavoriteState is a snapshot of the local favorite set, ids ascending.
type FavoriteState struct {
	IDs     []int64
	Version uint64
}

// toggle is one queued membership change, sent with its caller's context.
type toggle struct {
	ctx context.Context
	add bool
}

// FavoriteController keeps the user's favorite set with optimistic toggles.
// Toggles on the same wallpaper are queued and sent one at a time; a failed
// request resets the wallpaper to the last membership the server confirmed
// and drops whatever was still queued for it.
type FavoriteController struct {
	log       *slog.Logger
	gw        Gateway
	notifier  Notifier
	navigator Navigator
	auth      Authenticator

	mu      sync.Mutex
	local   map[int64]bool
	acked   map[int64]bool
	queues  map[int64][]toggle
	gen     uint64
	version uint64

	wg  sync.WaitGroup
	hub hub[FavoriteState]
}

func NewFavoriteController(
	log *slog.Logger,
	gw Gateway,
	notifier Notifier,
	navigator Navigator,
	auth Authenticator,
) *FavoriteController {
	return &FavoriteController{
		log:       log,
		gw:        gw,
		notifier:  notifier,
		navigator: navigator,
		auth:      auth,
		local:     make(map[int64]bool),
		acked:     make(map[int64]bool),
		queues:    make(map[int64][]toggle),
	}
}

func (c *FavoriteController) Subscribe(fn func(FavoriteState)) (unsubscribe func()) {
	return c.hub.subscribe(fn)
}

func (c *FavoriteController) Has(wallpaperID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local[wallpaperID]
}

func (c *FavoriteController) State() FavoriteState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Toggle flips membership locally and queues the matching request. It
// returns ErrUnauthenticated, after sending the user to the login surface,
// when nobody is signed in.
func (c *FavoriteController) Toggle(ctx context.Context, wallpaperID int64) error {
	if !c.auth.Authenticated() {
		c.navigator.ToLogin()
		return ErrUnauthenticated
	}

	c.mu.Lock()
	add := !c.local[wallpaperID]
	c.setLocked(c.local, wallpaperID, add)

	_, running := c.queues[wallpaperID]
	c.queues[wallpaperID] = append(c.queues[wallpaperID], toggle{ctx: ctx, add: add})
	if !running {
		c.wg.Add(1)
		go c.drain(wallpaperID, c.gen)
	}

	snap := c.commitLocked()
	c.mu.Unlock()

	c.hub.publish(snap.Version, snap)
	return nil
}

// drain sends queued toggles for one wallpaper in order.
func (c *FavoriteController) drain(wallpaperID int64, gen uint64) {
	const op = "gallery.FavoriteController.drain"

	defer c.wg.Done()

	log := c.log.With(
		slog.String("op", op),
		slog.Int64("wallpaper_id", wallpaperID),
	)

	for {
		c.mu.Lock()
		queue := c.queues[wallpaperID]
		if gen != c.gen || len(queue) == 0 {
			if gen == c.gen {
				delete(c.queues, wallpaperID)
			}
			c.mu.Unlock()
			return
		}
		next := queue[0]
		add := next.add
		c.queues[wallpaperID] = queue[1:]
		c.mu.Unlock()

		var err error
		if add {
			err = c.gw.AddFavorite(next.ctx, wallpaperID)
		} else {
			err = c.gw.RemoveFavorite(next.ctx, wallpaperID)
		}

		c.mu.Lock()
		if gen != c.gen {
			c.mu.Unlock()
			return
		}

		if err != nil {
			c.setLocked(c.local, wallpaperID, c.acked[wallpaperID])
			delete(c.queues, wallpaperID)
			snap := c.commitLocked()
			c.mu.Unlock()

			log.Error("failed to update favorite", slog.Bool("add", add), sl.Err(err))
			c.notifier.Error(NoticeFavoriteFailed)
			c.hub.publish(snap.Version, snap)
			return
		}

		c.setLocked(c.acked, wallpaperID, add)
		c.mu.Unlock()

		if add {
			c.notifier.Success(NoticeFavoriteAdded)
		} else {
			c.notifier.Success(NoticeFavoriteRemoved)
		}
	}
}

// Load replaces the set with the signed-in user's favorites.
func (c *FavoriteController) Load(ctx context.Context) {
	const op = "gallery.FavoriteController.Load"

	if !c.auth.Authenticated() {
		c.Reset()
		return
	}

	ids, err := c.gw.ListFavoriteIDs(ctx)
	if err != nil {
		c.log.Error("failed to load favorites", slog.String("op", op), sl.Err(err))
		return
	}

	c.mu.Lock()
	c.gen++
	c.local = make(map[int64]bool, len(ids))
	c.acked = make(map[int64]bool, len(ids))
	c.queues = make(map[int64][]toggle)
	for _, id := range ids {
		c.local[id] = true
		c.acked[id] = true
	}
	snap := c.commitLocked()
	c.mu.Unlock()

	c.hub.publish(snap.Version, snap)
}

// Reset forgets every favorite and abandons queued toggles.
func (c *FavoriteController) Reset() {
	c.mu.Lock()
	c.gen++
	c.local = make(map[int64]bool)
	c.acked = make(map[int64]bool)
	c.queues = make(map[int64][]toggle)
	snap := c.commitLocked()
	c.mu.Unlock()

	c.hub.publish(snap.Version, snap)
}

func (c *FavoriteController) Wait() {
	c.wg.Wait()
}

func (c *FavoriteController) setLocked(set map[int64]bool, id int64, member bool) {
	if member {
		set[id] = true
		return
	}
	delete(set, id)
}

func (c *FavoriteController) commitLocked() FavoriteState {
	c.version++
	return c.snapshotLocked()
}

func (c *FavoriteController) snapshotLocked() FavoriteState {
	ids := make([]int64, 0, len(c.local))
	for id := range c.local {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return FavoriteState{IDs: ids, Version: c.version}
}
