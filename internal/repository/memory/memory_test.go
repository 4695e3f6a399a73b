package memory

import (
	"context"
	"testing"
	"time"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/frontandrew/movierental/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMovie(t *testing.T, title string) *domain.Movie {
	t.Helper()
	m, err := domain.NewMovie(title, time.Date(1999, 3, 31, 0, 0, 0, 0, time.UTC), domain.Regular, 12)
	require.NoError(t, err)
	require.NoError(t, m.AssignID(uuid.New()))
	return m
}

func newUser(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(name, "Hans", time.Date(1980, 3, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, u.AssignID(uuid.New()))
	return u
}

func TestMovieRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMovieRepository(NewStore())

	matrix := newMovie(t, "The Matrix")
	heat := newMovie(t, "Heat")
	require.NoError(t, repo.Save(ctx, matrix))
	require.NoError(t, repo.Save(ctx, heat))

	got, err := repo.GetByID(ctx, matrix.MustID())
	require.NoError(t, err)
	assert.Same(t, matrix, got)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)

	heat.SetRented(true)
	rented, notRented := true, false

	all, err := repo.List(ctx, repository.MovieFilter{})
	require.NoError(t, err)
	assert.Equal(t, []*domain.Movie{matrix, heat}, all)

	onlyRented, err := repo.List(ctx, repository.MovieFilter{Rented: &rented})
	require.NoError(t, err)
	assert.Equal(t, []*domain.Movie{heat}, onlyRented)

	available, err := repo.List(ctx, repository.MovieFilter{Rented: &notRented})
	require.NoError(t, err)
	assert.Equal(t, []*domain.Movie{matrix}, available)

	require.NoError(t, repo.Delete(ctx, matrix.MustID()))
	assert.ErrorIs(t, repo.Delete(ctx, matrix.MustID()), domain.ErrMovieNotFound)
}

func TestMovieRepository_SaveReplacesAttributes(t *testing.T) {
	ctx := context.Background()
	repo := NewMovieRepository(NewStore())

	stored := newMovie(t, "Old")
	stored.SetRented(true)
	require.NoError(t, repo.Save(ctx, stored))

	update, err := domain.NewMovie("New", time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), domain.Children, 6)
	require.NoError(t, err)
	require.NoError(t, update.AssignID(stored.MustID()))
	require.NoError(t, repo.Save(ctx, update))

	got, err := repo.GetByID(ctx, stored.MustID())
	require.NoError(t, err)
	assert.Same(t, stored, got)
	assert.Equal(t, "New", got.Title())
	assert.Equal(t, domain.Children, got.PriceCategory())
	assert.True(t, got.IsRented())
}

func TestMovieRepository_SaveWithoutID(t *testing.T) {
	m, err := domain.NewMovie("NoID", time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), domain.Regular, 0)
	require.NoError(t, err)

	err = NewMovieRepository(NewStore()).Save(context.Background(), m)
	assert.ErrorIs(t, err, domain.ErrIDNotSet)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	first := newUser(t, "Muster")
	second := newUser(t, "Muster")
	other := newUser(t, "Meier")
	for _, u := range []*domain.User{first, second, other} {
		require.NoError(t, repo.Save(ctx, u))
	}

	got, err := repo.GetByName(ctx, "Muster")
	require.NoError(t, err)
	assert.Same(t, first, got, "возвращается первый пользователь с фамилией")

	_, err = repo.GetByName(ctx, "Unknown")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, repo.Delete(ctx, first.MustID()))
	_, err = repo.GetByID(ctx, first.MustID())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.MustID()), domain.ErrUserNotFound)
}

func TestRentalRepository(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	movies := NewMovieRepository(store)
	users := NewUserRepository(store)
	rentals := NewRentalRepository(store)

	u := newUser(t, "Muster")
	m := newMovie(t, "Alien")
	require.NoError(t, users.Save(ctx, u))
	require.NoError(t, movies.Save(ctx, m))

	rental, err := domain.NewRental(u, m, domain.Today().AddDate(0, 0, -2))
	require.NoError(t, err)
	require.NoError(t, rental.AssignID(uuid.New()))
	require.NoError(t, rentals.Save(ctx, rental))

	got, err := rentals.GetByID(ctx, rental.MustID())
	require.NoError(t, err)
	assert.Same(t, rental, got)

	byUser, err := rentals.ListByUser(ctx, u.MustID())
	require.NoError(t, err)
	assert.Equal(t, []*domain.Rental{rental}, byUser)

	byOther, err := rentals.ListByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, byOther)

	assert.Error(t, rentals.Save(ctx, rental), "повторное сохранение")

	require.NoError(t, rental.Return())
	require.NoError(t, rentals.Delete(ctx, rental))
	assert.False(t, m.IsRented())
	assert.ErrorIs(t, rentals.Delete(ctx, rental), domain.ErrRentalNotFound)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Movies: 1, Users: 1, Rentals: 0}, stats)
}

func TestRentalRepository_UnknownMovie(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	u := newUser(t, "Muster")
	require.NoError(t, NewUserRepository(store).Save(ctx, u))

	rental, err := domain.NewRental(u, newMovie(t, "Ghost"), domain.Today())
	require.NoError(t, err)
	require.NoError(t, rental.AssignID(uuid.New()))

	err = NewRentalRepository(store).Save(ctx, rental)
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)
}

func TestRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMovieRepository(NewStore()).List(ctx, repository.MovieFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}
