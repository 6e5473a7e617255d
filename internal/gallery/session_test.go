package gallery_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/gallery"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	sessionUserID = uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	sessionPair   = models.TokenPair{UserID: sessionUserID, AccessToken: "access", RefreshToken: "refresh"}
	sessionUser   = models.Account{User: models.User{ID: sessionUserID, Email: "test@example.com"}}
)

func TestSession_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("no stored token", func(t *testing.T) {
		gw := new(MockGateway)
		s := gallery.NewSession(discardLogger(), gw, &gallery.MemoryTokenStore{}, &recordingNotifier{})

		require.NoError(t, s.Restore(ctx))
		assert.False(t, s.Authenticated())
		gw.AssertNotCalled(t, "CurrentUser", mock.Anything)
	})

	t.Run("valid token", func(t *testing.T) {
		gw := new(MockGateway)
		tokens := &gallery.MemoryTokenStore{}
		require.NoError(t, tokens.Save(sessionPair))
		gw.On("CurrentUser", mock.Anything).Return(sessionUser, nil).Once()

		s := gallery.NewSession(discardLogger(), gw, tokens, &recordingNotifier{})
		require.NoError(t, s.Restore(ctx))

		user, ok := s.User()
		require.True(t, ok)
		assert.Equal(t, "test@example.com", user.User.Email)
	})

	t.Run("rejected token is cleared", func(t *testing.T) {
		gw := new(MockGateway)
		tokens := &gallery.MemoryTokenStore{}
		require.NoError(t, tokens.Save(sessionPair))
		gw.On("CurrentUser", mock.Anything).
			Return(models.Account{}, fmt.Errorf("%w: expired", gallery.ErrUnauthenticated)).Once()

		s := gallery.NewSession(discardLogger(), gw, tokens, &recordingNotifier{})
		require.NoError(t, s.Restore(ctx))

		assert.False(t, s.Authenticated())
		_, err := tokens.Load()
		assert.ErrorIs(t, err, gallery.ErrNoToken)
	})

	t.Run("transient failure keeps tokens", func(t *testing.T) {
		gw := new(MockGateway)
		tokens := &gallery.MemoryTokenStore{}
		require.NoError(t, tokens.Save(sessionPair))
		gw.On("CurrentUser", mock.Anything).
			Return(models.Account{}, errors.New("dial tcp: connection refused")).Once()

		s := gallery.NewSession(discardLogger(), gw, tokens, &recordingNotifier{})
		err := s.Restore(ctx)
		require.ErrorIs(t, err, gallery.ErrGateway)
		assert.False(t, s.Authenticated())

		stored, err := tokens.Load()
		require.NoError(t, err)
		assert.Equal(t, sessionPair, stored)

		gw.On("CurrentUser", mock.Anything).Return(sessionUser, nil).Once()
		require.NoError(t, s.Restore(ctx))
		assert.True(t, s.Authenticated())
	})
}

func TestSession_SignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores tokens", func(t *testing.T) {
		gw := new(MockGateway)
		tokens := &gallery.MemoryTokenStore{}
		gw.On("SignIn", mock.Anything, "test@example.com", "password123").Return(sessionPair, nil).Once()
		gw.On("CurrentUser", mock.Anything).Return(sessionUser, nil).Once()

		s := gallery.NewSession(discardLogger(), gw, tokens, &recordingNotifier{})

		var states []gallery.SessionState
		stop := s.OnChange(func(st gallery.SessionState) { states = append(states, st) })
		defer stop()

		require.NoError(t, s.SignIn(ctx, " test@example.com ", "password123"))

		assert.True(t, s.Authenticated())
		stored, err := tokens.Load()
		require.NoError(t, err)
		assert.Equal(t, sessionPair, stored)
		require.Len(t, states, 1)
		require.NotNil(t, states[0].Account)
	})

	t.Run("bad credentials", func(t *testing.T) {
		gw := new(MockGateway)
		notifier := &recordingNotifier{}
		gw.On("SignIn", mock.Anything, "test@example.com", "wrong").
			Return(models.TokenPair{}, fmt.Errorf("%w: 401", gallery.ErrUnauthenticated)).Once()

		s := gallery.NewSession(discardLogger(), gw, &gallery.MemoryTokenStore{}, notifier)
		err := s.SignIn(ctx, "test@example.com", "wrong")

		require.ErrorIs(t, err, gallery.ErrUnauthenticated)
		assert.False(t, s.Authenticated())
		assert.Equal(t, []string{gallery.NoticeSignInFailed}, notifier.Errors())
	})

	t.Run("backend down", func(t *testing.T) {
		gw := new(MockGateway)
		notifier := &recordingNotifier{}
		gw.On("SignIn", mock.Anything, "test@example.com", "pw").
			Return(models.TokenPair{}, errors.New("connection refused")).Once()

		s := gallery.NewSession(discardLogger(), gw, &gallery.MemoryTokenStore{}, notifier)
		err := s.SignIn(ctx, "test@example.com", "pw")

		require.ErrorIs(t, err, gallery.ErrGateway)
		assert.Equal(t, []string{gallery.NoticeSignInUnavailable}, notifier.Errors())
	})

	t.Run("missing fields", func(t *testing.T) {
		gw := new(MockGateway)
		s := gallery.NewSession(discardLogger(), gw, &gallery.MemoryTokenStore{}, &recordingNotifier{})

		require.ErrorIs(t, s.SignIn(ctx, "  ", "pw"), gallery.ErrValidation)
		gw.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSession_SignUp(t *testing.T) {
	gw := new(MockGateway)
	gw.On("SignUp", mock.Anything, "new@example.com", "password123", "Jane").Return(sessionPair, nil).Once()
	gw.On("CurrentUser", mock.Anything).Return(models.Account{}, errors.New("flaky")).Once()

	s := gallery.NewSession(discardLogger(), gw, &gallery.MemoryTokenStore{}, &recordingNotifier{})
	require.NoError(t, s.SignUp(context.Background(), "new@example.com", "password123", " Jane "))

	user, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, sessionUserID, user.User.ID)
}

func TestSession_SignOutResetsFavorites(t *testing.T) {
	ctx := context.Background()
	gw := new(MockGateway)
	tokens := &gallery.MemoryTokenStore{}
	notifier := &recordingNotifier{}

	gw.On("SignIn", mock.Anything, "test@example.com", "password123").Return(sessionPair, nil).Once()
	gw.On("CurrentUser", mock.Anything).Return(sessionUser, nil).Once()
	gw.On("ListFavoriteIDs", mock.Anything).Return([]int64{1, 2}, nil).Once()
	gw.On("SignOut", mock.Anything).Return(errors.New("already gone")).Once()

	s := gallery.NewSession(discardLogger(), gw, tokens, notifier)
	favs := gallery.NewFavoriteController(discardLogger(), gw, notifier, &recordingNavigator{}, s)
	stop := favs.Follow(ctx, s)
	defer stop()

	require.NoError(t, s.SignIn(ctx, "test@example.com", "password123"))
	assert.Equal(t, []int64{1, 2}, favs.State().IDs)

	s.SignOut(ctx)

	assert.False(t, s.Authenticated())
	assert.Empty(t, favs.State().IDs)
	_, err := tokens.Load()
	assert.ErrorIs(t, err, gallery.ErrNoToken)
	assert.Contains(t, notifier.Successes(), gallery.NoticeSignedOut)
}
