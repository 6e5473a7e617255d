package gallery_test

import (
	"context"
	"errors"
	"testing"

	"pg_wallpaper/internal/gallery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type favoriteFixture struct {
	gw        *MockGateway
	notifier  *recordingNotifier
	navigator *recordingNavigator
	ctrl      *gallery.FavoriteController
}

func newFavoriteFixture(authenticated bool) favoriteFixture {
	f := favoriteFixture{
		gw:        new(MockGateway),
		notifier:  &recordingNotifier{},
		navigator: &recordingNavigator{},
	}
	f.ctrl = gallery.NewFavoriteController(discardLogger(), f.gw, f.notifier, f.navigator, fixedAuth(authenticated))
	return f
}

func TestFavorites_UnauthenticatedToggle(t *testing.T) {
	f := newFavoriteFixture(false)

	err := f.ctrl.Toggle(context.Background(), 42)
	f.ctrl.Wait()

	require.ErrorIs(t, err, gallery.ErrUnauthenticated)
	assert.Equal(t, int32(1), f.navigator.logins.Load())
	assert.False(t, f.ctrl.Has(42))
	f.gw.AssertNotCalled(t, "AddFavorite", mock.Anything, mock.Anything)
	f.gw.AssertNotCalled(t, "RemoveFavorite", mock.Anything, mock.Anything)
}

func TestFavorites_AddAndRemove(t *testing.T) {
	f := newFavoriteFixture(true)
	ctx := context.Background()

	f.gw.On("AddFavorite", mock.Anything, int64(7)).Return(nil).Once()
	f.gw.On("RemoveFavorite", mock.Anything, int64(7)).Return(nil).Once()

	require.NoError(t, f.ctrl.Toggle(ctx, 7))
	assert.True(t, f.ctrl.Has(7))
	f.ctrl.Wait()
	assert.True(t, f.ctrl.Has(7))

	require.NoError(t, f.ctrl.Toggle(ctx, 7))
	f.ctrl.Wait()
	assert.False(t, f.ctrl.Has(7))

	assert.Equal(t, []string{gallery.NoticeFavoriteAdded, gallery.NoticeFavoriteRemoved}, f.notifier.Successes())
	f.gw.AssertExpectations(t)
}

func TestFavorites_DoubleToggleSettlesToOriginal(t *testing.T) {
	f := newFavoriteFixture(true)
	ctx := context.Background()

	release := make(chan struct{})
	f.gw.On("AddFavorite", mock.Anything, int64(42)).Run(func(mock.Arguments) { <-release }).Return(nil).Once()
	f.gw.On("RemoveFavorite", mock.Anything, int64(42)).Return(nil).Once()

	require.NoError(t, f.ctrl.Toggle(ctx, 42))
	require.NoError(t, f.ctrl.Toggle(ctx, 42))
	assert.False(t, f.ctrl.Has(42))

	close(release)
	f.ctrl.Wait()

	assert.False(t, f.ctrl.Has(42))
	assert.Empty(t, f.ctrl.State().IDs)

	// queued toggles went out in order, one after the other
	require.Len(t, f.gw.Calls, 2)
	assert.Equal(t, "AddFavorite", f.gw.Calls[0].Method)
	assert.Equal(t, "RemoveFavorite", f.gw.Calls[1].Method)
}

func TestFavorites_FailedInsertRollsBack(t *testing.T) {
	f := newFavoriteFixture(true)
	ctx := context.Background()

	f.gw.On("ListFavoriteIDs", mock.Anything).Return([]int64{1, 2}, nil).Once()
	f.gw.On("AddFavorite", mock.Anything, int64(3)).Return(errors.New("insert failed")).Once()

	f.ctrl.Load(ctx)
	before := f.ctrl.State().IDs

	require.NoError(t, f.ctrl.Toggle(ctx, 3))
	assert.True(t, f.ctrl.Has(3))
	f.ctrl.Wait()

	assert.Equal(t, before, f.ctrl.State().IDs)
	assert.Equal(t, []string{gallery.NoticeFavoriteFailed}, f.notifier.Errors())
}

func TestFavorites_FailureDropsQueuedToggles(t *testing.T) {
	f := newFavoriteFixture(true)
	ctx := context.Background()

	release := make(chan struct{})
	f.gw.On("AddFavorite", mock.Anything, int64(5)).
		Run(func(mock.Arguments) { <-release }).
		Return(errors.New("down")).Once()

	require.NoError(t, f.ctrl.Toggle(ctx, 5)) // add, in flight
	require.NoError(t, f.ctrl.Toggle(ctx, 5)) // remove, queued
	require.NoError(t, f.ctrl.Toggle(ctx, 5)) // add, queued
	assert.True(t, f.ctrl.Has(5))

	close(release)
	f.ctrl.Wait()

	assert.False(t, f.ctrl.Has(5))
	f.gw.AssertNumberOfCalls(t, "AddFavorite", 1)
	f.gw.AssertNotCalled(t, "RemoveFavorite", mock.Anything, mock.Anything)
}

func TestFavorites_QueuedToggleUsesItsOwnContext(t *testing.T) {
	f := newFavoriteFixture(true)

	first, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})

	f.gw.On("AddFavorite", mock.Anything, int64(42)).
		Run(func(mock.Arguments) { <-release }).
		Return(nil).Once()
	f.gw.On("RemoveFavorite", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), int64(42)).Return(nil).Once()

	require.NoError(t, f.ctrl.Toggle(first, 42))
	require.NoError(t, f.ctrl.Toggle(context.Background(), 42))

	cancel()
	close(release)
	f.ctrl.Wait()

	assert.False(t, f.ctrl.Has(42))
	assert.Empty(t, f.notifier.Errors())
	f.gw.AssertExpectations(t)
}

func TestFavorites_IndependentIDs(t *testing.T) {
	f := newFavoriteFixture(true)
	ctx := context.Background()

	f.gw.On("AddFavorite", mock.Anything, int64(1)).Return(nil).Once()
	f.gw.On("AddFavorite", mock.Anything, int64(2)).Return(errors.New("nope")).Once()

	require.NoError(t, f.ctrl.Toggle(ctx, 1))
	require.NoError(t, f.ctrl.Toggle(ctx, 2))
	f.ctrl.Wait()

	assert.Equal(t, []int64{1}, f.ctrl.State().IDs)
}

func TestFavorites_LoadAndReset(t *testing.T) {
	f := newFavoriteFixture(true)
	ctx := context.Background()

	f.gw.On("ListFavoriteIDs", mock.Anything).Return([]int64{9, 3}, nil).Once()

	var seen []gallery.FavoriteState
	stop := f.ctrl.Subscribe(func(st gallery.FavoriteState) { seen = append(seen, st) })
	defer stop()

	f.ctrl.Load(ctx)
	assert.Equal(t, []int64{3, 9}, f.ctrl.State().IDs)

	f.ctrl.Reset()
	assert.Empty(t, f.ctrl.State().IDs)

	require.Len(t, seen, 2)
	assert.Equal(t, []int64{3, 9}, seen[0].IDs)
	assert.Empty(t, seen[1].IDs)
}

func TestFavorites_LoadFailureKeepsSet(t *testing.T) {
	f := newFavoriteFixture(true)
	ctx := context.Background()

	f.gw.On("ListFavoriteIDs", mock.Anything).Return([]int64{4}, nil).Once()
	f.gw.On("ListFavoriteIDs", mock.Anything).Return([]int64(nil), errors.New("timeout")).Once()

	f.ctrl.Load(ctx)
	f.ctrl.Load(ctx)

	assert.Equal(t, []int64{4}, f.ctrl.State().IDs)
}

func TestFavorites_ResetDiscardsInFlightResult(t *testing.T) {
	f := newFavoriteFixture(true)
	ctx := context.Background()

	release := make(chan struct{})
	f.gw.On("AddFavorite", mock.Anything, int64(8)).Run(func(mock.Arguments) { <-release }).Return(nil).Once()

	require.NoError(t, f.ctrl.Toggle(ctx, 8))
	f.ctrl.Reset()
	close(release)
	f.ctrl.Wait()

	assert.False(t, f.ctrl.Has(8))
	assert.Empty(t, f.notifier.Successes())
}
