package gallery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/lib/logger/sl"
)

const (
	CarouselSize     = 5
	CarouselInterval = 4 * time.Second
)

type CarouselState struct {
	Items    []models.Wallpaper
	Index    int
	Autoplay bool
	Paused   bool
	Version  uint64
}

// Carousel cycles through the most downloaded wallpapers. Autoplay advances
// on a ticker and loops; hovering pauses it and any manual move stops it
// for good.
type Carousel struct {
	log      *slog.Logger
	gw       Gateway
	interval time.Duration

	// newTicker is swapped in tests.
	newTicker func(time.Duration) (<-chan time.Time, func())

	mu       sync.Mutex
	items    []models.Wallpaper
	index    int
	autoplay bool
	paused   bool
	running  bool
	version  uint64
	quit     chan struct{}
	stopOnce sync.Once

	wg  sync.WaitGroup
	hub hub[CarouselState]
}

type CarouselOption func(*Carousel)

func WithInterval(d time.Duration) CarouselOption {
	return func(c *Carousel) { c.interval = d }
}

func NewCarousel(log *slog.Logger, gw Gateway, opts ...CarouselOption) *Carousel {
	c := &Carousel{
		log:      log,
		gw:       gw,
		interval: CarouselInterval,
		autoplay: true,
		quit:     make(chan struct{}),
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Carousel) Subscribe(fn func(CarouselState)) (unsubscribe func()) {
	return c.hub.subscribe(fn)
}

func (c *Carousel) State() CarouselState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Load fetches the top downloads and starts autoplay. A failed fetch is
// logged and leaves the carousel empty.
func (c *Carousel) Load(ctx context.Context) {
	const op = "gallery.Carousel.Load"

	items, err := c.gw.TopWallpapers(ctx, CarouselSize)
	if err != nil {
		c.log.Error("failed to fetch top wallpapers", slog.String("op", op), sl.Err(err))
		return
	}

	c.mu.Lock()
	c.items = items
	c.index = 0
	start := len(items) > 0 && c.autoplay && !c.running
	if start {
		c.running = true
		tick, stop := c.newTicker(c.interval)
		c.wg.Add(1)
		go c.run(tick, stop)
	}
	snap := c.commitLocked()
	c.mu.Unlock()

	c.hub.publish(snap.Version, snap)
}

func (c *Carousel) Current() (models.Wallpaper, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) == 0 {
		return models.Wallpaper{}, false
	}
	return c.items[c.index], true
}

func (c *Carousel) Next() { c.manual(1) }

func (c *Carousel) Prev() { c.manual(-1) }

func (c *Carousel) Pause() { c.setPaused(true) }

func (c *Carousel) Resume() { c.setPaused(false) }

// Close stops autoplay and waits for the ticker goroutine.
func (c *Carousel) Close() {
	c.stopAutoplay()
	c.wg.Wait()
}

func (c *Carousel) run(tick <-chan time.Time, stop func()) {
	defer c.wg.Done()
	defer stop()

	for {
		select {
		case <-c.quit:
			return
		case <-tick:
			c.advance()
		}
	}
}

func (c *Carousel) advance() {
	c.mu.Lock()
	if !c.autoplay || c.paused || len(c.items) == 0 {
		c.mu.Unlock()
		return
	}
	c.index = (c.index + 1) % len(c.items)
	snap := c.commitLocked()
	c.mu.Unlock()

	c.hub.publish(snap.Version, snap)
}

func (c *Carousel) manual(step int) {
	c.stopAutoplay()

	c.mu.Lock()
	if len(c.items) == 0 {
		c.mu.Unlock()
		return
	}
	n := len(c.items)
	c.index = ((c.index+step)%n + n) % n
	snap := c.commitLocked()
	c.mu.Unlock()

	c.hub.publish(snap.Version, snap)
}

func (c *Carousel) setPaused(paused bool) {
	c.mu.Lock()
	if c.paused == paused {
		c.mu.Unlock()
		return
	}
	c.paused = paused
	snap := c.commitLocked()
	c.mu.Unlock()

	c.hub.publish(snap.Version, snap)
}

func (c *Carousel) stopAutoplay() {
	c.mu.Lock()
	c.autoplay = false
	c.mu.Unlock()

	c.stopOnce.Do(func() { close(c.quit) })
}

func (c *Carousel) commitLocked() CarouselState {
	c.version++
	return c.snapshotLocked()
}

func (c *Carousel) snapshotLocked() CarouselState {
	return CarouselState{
		Items:    append([]models.Wallpaper(nil), c.items...),
		Index:    c.index,
		Autoplay: c.autoplay,
		Paused:   c.paused,
		Version:  c.version,
	}
}
