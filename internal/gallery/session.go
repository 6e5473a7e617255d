package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/lib/logger/sl"
)

// SessionState is nil-Account when signed out.
type SessionState struct {
	Account *models.Account
	Version uint64
}

// Session is the explicit auth context shared by the controllers.
type Session struct {
	log      *slog.Logger
	gw       Gateway
	tokens   TokenStore
	notifier Notifier

	mu      sync.RWMutex
	account *models.Account
	version uint64

	hub hub[SessionState]
}

func NewSession(log *slog.Logger, gw Gateway, tokens TokenStore, notifier Notifier) *Session {
	return &Session{
		log:      log,
		gw:       gw,
		tokens:   tokens,
		notifier: notifier,
	}
}

// OnChange calls fn after every sign-in, sign-up, restore and sign-out.
func (s *Session) OnChange(fn func(SessionState)) (unsubscribe func()) {
	return s.hub.subscribe(fn)
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account != nil
}

func (s *Session) User() (models.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.account == nil {
		return models.Account{}, false
	}
	return *s.account, true
}

// Restore picks up a stored session. A token the backend no longer accepts
// is cleared and the session stays signed out. When the backend cannot be
// reached the tokens are kept and an error wrapping ErrGateway is returned.
func (s *Session) Restore(ctx context.Context) error {
	const op = "gallery.Session.Restore"

	log := s.log.With(slog.String("op", op))

	if _, err := s.tokens.Load(); err != nil {
		if errors.Is(err, ErrNoToken) {
			s.set(nil)
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	account, err := s.gw.CurrentUser(ctx)
	if err != nil {
		if !errors.Is(err, ErrUnauthenticated) {
			// tokens stay stored so a later Restore can pick them up
			log.Warn("could not reach backend to restore session", sl.Err(err))
			s.set(nil)
			return fmt.Errorf("%s: %w: %w", op, ErrGateway, err)
		}

		log.Warn("stored session rejected", sl.Err(err))
		if err := s.tokens.Clear(); err != nil {
			log.Error("failed to clear tokens", sl.Err(err))
		}
		s.set(nil)
		return nil
	}

	s.set(&account)
	return nil
}

func (s *Session) SignIn(ctx context.Context, email, password string) error {
	const op = "gallery.Session.SignIn"

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.notifier.Error(NoticeSignInFailed)
		return fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	pair, err := s.gw.SignIn(ctx, email, password)
	if err != nil {
		s.log.Warn("sign in failed", slog.String("op", op), sl.Err(err))
		if errors.Is(err, ErrUnauthenticated) {
			s.notifier.Error(NoticeSignInFailed)
			return ErrUnauthenticated
		}
		s.notifier.Error(NoticeSignInUnavailable)
		return fmt.Errorf("%w: %w", ErrGateway, err)
	}

	return s.establish(ctx, op, pair)
}

func (s *Session) SignUp(ctx context.Context, email, password, fullName string) error {
	const op = "gallery.Session.SignUp"

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.notifier.Error(NoticeSignUpFailed)
		return fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	pair, err := s.gw.SignUp(ctx, email, password, strings.TrimSpace(fullName))
	if err != nil {
		s.log.Warn("sign up failed", slog.String("op", op), sl.Err(err))
		s.notifier.Error(NoticeSignUpFailed)
		return fmt.Errorf("%w: %w", ErrGateway, err)
	}

	return s.establish(ctx, op, pair)
}

// SignOut always ends the local session, even if the backend call fails.
func (s *Session) SignOut(ctx context.Context) {
	const op = "gallery.Session.SignOut"

	log := s.log.With(slog.String("op", op))

	if err := s.gw.SignOut(ctx); err != nil {
		log.Warn("backend sign out failed", sl.Err(err))
	}
	if err := s.tokens.Clear(); err != nil {
		log.Error("failed to clear tokens", sl.Err(err))
	}

	s.set(nil)
	s.notifier.Success(NoticeSignedOut)
}

func (s *Session) establish(ctx context.Context, op string, pair models.TokenPair) error {
	if err := s.tokens.Save(pair); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	account, err := s.gw.CurrentUser(ctx)
	if err != nil {
		s.log.Warn("failed to load current user", slog.String("op", op), sl.Err(err))
		account = models.Account{User: models.User{ID: pair.UserID}}
	}

	s.set(&account)
	return nil
}

func (s *Session) set(account *models.Account) {
	s.mu.Lock()
	s.account = account
	s.version++
	snap := SessionState{Version: s.version}
	if account != nil {
		a := *account
		snap.Account = &a
	}
	s.mu.Unlock()

	s.hub.publish(snap.Version, snap)
}

// Follow keeps the favorite set in step with the session: it loads the
// user's favorites on sign-in and clears them on sign-out.
func (c *FavoriteController) Follow(ctx context.Context, s *Session) (stop func()) {
	return s.OnChange(func(st SessionState) {
		if st.Account == nil {
			c.Reset()
			return
		}
		c.Load(ctx)
	})
}
