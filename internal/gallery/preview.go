package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/lib/logger/sl"
)

// PreviewState is a snapshot of the open preview. Wallpaper is nil when no
// preview is open.
type PreviewState struct {
	Wallpaper       *models.Wallpaper
	Comments        []models.Comment
	LoadingComments bool
	Generation      uint64
	Version         uint64
}

// PreviewController drives the wallpaper detail view: its comment thread,
// posting comments and downloads.
type PreviewController struct {
	log       *slog.Logger
	gw        Gateway
	notifier  Notifier
	navigator Navigator
	auth      Authenticator
	saver     Saver

	mu       sync.Mutex
	active   *models.Wallpaper
	comments []models.Comment
	loading  bool
	gen      uint64
	version  uint64
	cancel   context.CancelFunc

	wg  sync.WaitGroup
	hub hub[PreviewState]
}

func NewPreviewController(
	log *slog.Logger,
	gw Gateway,
	notifier Notifier,
	navigator Navigator,
	auth Authenticator,
	saver Saver,
) *PreviewController {
	return &PreviewController{
		log:       log,
		gw:        gw,
		notifier:  notifier,
		navigator: navigator,
		auth:      auth,
		saver:     saver,
	}
}

func (c *PreviewController) Subscribe(fn func(PreviewState)) (unsubscribe func()) {
	return c.hub.subscribe(fn)
}

func (c *PreviewController) State() PreviewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Open makes w the active preview and loads its comments, newest first.
func (c *PreviewController) Open(ctx context.Context, w models.Wallpaper) {
	const op = "gallery.PreviewController.Open"

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	c.active = &w
	c.comments = nil
	c.loading = true

	lctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	snap := c.commitLocked()
	c.mu.Unlock()

	c.hub.publish(snap.Version, snap)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()

		list, err := c.gw.ListComments(lctx, w.ID)

		c.mu.Lock()
		if gen != c.gen {
			c.mu.Unlock()
			return
		}
		c.loading = false
		c.cancel = nil
		if err != nil {
			c.log.Error("failed to load comments",
				slog.String("op", op),
				slog.Int64("wallpaper_id", w.ID),
				sl.Err(err),
			)
		} else {
			sort.SliceStable(list, func(i, j int) bool {
				return list[i].CreatedAt.After(list[j].CreatedAt)
			})
			c.comments = list
		}
		snap := c.commitLocked()
		c.mu.Unlock()

		c.hub.publish(snap.Version, snap)
		if err != nil {
			c.notifier.Error(NoticeCommentsFailed)
		}
	}()
}

// Close clears the active preview and drops any pending comment load.
func (c *PreviewController) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.active = nil
	c.comments = nil
	c.loading = false
	snap := c.commitLocked()
	c.mu.Unlock()

	c.hub.publish(snap.Version, snap)
}

// PostComment adds body to the open wallpaper's thread. The returned error
// tells the caller whether to keep the draft; the user has already been
// notified.
func (c *PreviewController) PostComment(ctx context.Context, body string) error {
	const op = "gallery.PreviewController.PostComment"

	if !c.auth.Authenticated() {
		c.notifier.Error(NoticeCommentLogin)
		c.navigator.ToLogin()
		return ErrUnauthenticated
	}

	content := strings.TrimSpace(body)
	if content == "" {
		c.notifier.Error(NoticeCommentEmpty)
		return ErrEmptyComment
	}

	c.mu.Lock()
	if c.active == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: no wallpaper open", ErrValidation)
	}
	gen := c.gen
	wallpaperID := c.active.ID
	c.mu.Unlock()

	comment, err := c.gw.PostComment(ctx, wallpaperID, content)
	if err != nil {
		c.log.Error("failed to post comment",
			slog.String("op", op),
			slog.Int64("wallpaper_id", wallpaperID),
			sl.Err(err),
		)
		c.notifier.Error(NoticeCommentFailed)
		return fmt.Errorf("%w: %w", ErrGateway, err)
	}

	c.mu.Lock()
	if gen == c.gen {
		comments := make([]models.Comment, 0, len(c.comments)+1)
		comments = append(comments, comment)
		c.comments = append(comments, c.comments...)
	}
	snap := c.commitLocked()
	c.mu.Unlock()

	c.hub.publish(snap.Version, snap)
	c.notifier.Success(NoticeCommentPosted)
	return nil
}

// TriggerDownload returns at once. The download counter is bumped in the
// background and its failure is only logged; the image itself is fetched
// and handed to the Saver.
func (c *PreviewController) TriggerDownload(ctx context.Context, w models.Wallpaper) {
	const op = "gallery.PreviewController.TriggerDownload"

	log := c.log.With(
		slog.String("op", op),
		slog.Int64("wallpaper_id", w.ID),
	)

	c.wg.Add(2)

	go func() {
		defer c.wg.Done()
		if err := c.gw.IncrementDownload(ctx, w.ID); err != nil {
			log.Warn("failed to increment download count", sl.Err(err))
		}
	}()

	go func() {
		defer c.wg.Done()

		data, err := c.gw.FetchImage(ctx, w.ImageURL)
		if err == nil {
			err = c.saver.Save(w.FileName(), data)
		}
		if err != nil {
			log.Error("download failed", sl.Err(err))
			c.notifier.Error(NoticeDownloadFailed)
		}
	}()
}

// Wait blocks until comment loads and downloads have finished.
func (c *PreviewController) Wait() {
	c.wg.Wait()
}

func (c *PreviewController) commitLocked() PreviewState {
	c.version++
	return c.snapshotLocked()
}

func (c *PreviewController) snapshotLocked() PreviewState {
	snap := PreviewState{
		Comments:        append([]models.Comment(nil), c.comments...),
		LoadingComments: c.loading,
		Generation:      c.gen,
		Version:         c.version,
	}
	if c.active != nil {
		w := *c.active
		snap.Wallpaper = &w
	}
	return snap
}
