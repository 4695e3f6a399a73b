package seed

import (
	"context"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/frontandrew/movierental/internal/pkg/logger"
	"github.com/frontandrew/movierental/internal/repository"
	"github.com/google/uuid"
)

//go:embed data/*.csv
var embedded embed.FS

// Имена файлов фикстур
const (
	MoviesFile  = "movies.csv"
	UsersFile   = "users.csv"
	RentalsFile = "rentals.csv"
)

// Data - загруженные и связанные между собой сущности
type Data struct {
	Movies  []*domain.Movie
	Users   []*domain.User
	Rentals []*domain.Rental
}

// Loader читает фикстуры из CSV с разделителем ";" и строкой заголовков
type Loader struct {
	files      fs.FS
	categories *domain.PriceCategoryRegistry
	logger     logger.Logger
}

// NewLoader создает загрузчик. Пустой dir - встроенные фикстуры.
func NewLoader(dir string, categories *domain.PriceCategoryRegistry, log logger.Logger) *Loader {
	var files fs.FS
	if dir == "" {
		files, _ = fs.Sub(embedded, "data")
	} else {
		files = os.DirFS(dir)
	}

	return NewLoaderFS(files, categories, log)
}

// NewLoaderFS создает загрузчик поверх произвольной файловой системы
func NewLoaderFS(files fs.FS, categories *domain.PriceCategoryRegistry, log logger.Logger) *Loader {
	return &Loader{
		files:      files,
		categories: categories,
		logger:     log.With("component", "seed"),
	}
}

// Load читает фильмы, пользователей и прокаты.
// Флаг проката фильма определяется прокатами, колонка isRented только сверяется.
func (l *Loader) Load() (*Data, error) {
	data := &Data{}

	movies := make(map[uuid.UUID]*domain.Movie)
	declaredRented := make(map[uuid.UUID]bool)
	err := l.readFile(MoviesFile, func(rec record) error {
		movie, rented, err := l.parseMovie(rec)
		if err != nil {
			return err
		}
		if _, dup := movies[movie.MustID()]; dup {
			return fmt.Errorf("duplicate movie id %s", movie.MustID())
		}
		movies[movie.MustID()] = movie
		declaredRented[movie.MustID()] = rented
		data.Movies = append(data.Movies, movie)
		return nil
	})
	if err != nil {
		return nil, err
	}

	users := make(map[uuid.UUID]*domain.User)
	err = l.readFile(UsersFile, func(rec record) error {
		user, err := parseUser(rec)
		if err != nil {
			return err
		}
		if _, dup := users[user.MustID()]; dup {
			return fmt.Errorf("duplicate user id %s", user.MustID())
		}
		users[user.MustID()] = user
		data.Users = append(data.Users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = l.readFile(RentalsFile, func(rec record) error {
		rental, err := parseRental(rec, users, movies)
		if err != nil {
			return err
		}
		data.Rentals = append(data.Rentals, rental)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, movie := range data.Movies {
		if declared := declaredRented[movie.MustID()]; declared != movie.IsRented() {
			l.logger.Warn("isRented column does not match rentals", map[string]interface{}{
				"movie_id": movie.MustID().String(),
				"title":    movie.Title(),
				"declared": declared,
				"actual":   movie.IsRented(),
			})
		}
	}

	return data, nil
}

// Apply сохраняет данные в репозитории: сначала фильмы и пользователи, затем прокаты
func Apply(ctx context.Context, data *Data, movies repository.MovieRepository, users repository.UserRepository, rentals repository.RentalRepository) error {
	for _, m := range data.Movies {
		if err := movies.Save(ctx, m); err != nil {
			return fmt.Errorf("seed movie %s: %w", m.MustID(), err)
		}
	}
	for _, u := range data.Users {
		if err := users.Save(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.MustID(), err)
		}
	}
	for _, r := range data.Rentals {
		if err := rentals.Save(ctx, r); err != nil {
			return fmt.Errorf("seed rental %s: %w", r.MustID(), err)
		}
	}
	return nil
}

func (l *Loader) parseMovie(rec record) (*domain.Movie, bool, error) {
	id, err := rec.uuidValue("ID")
	if err != nil {
		return nil, false, err
	}
	releaseDate, err := rec.dateValue("ReleaseDate")
	if err != nil {
		return nil, false, err
	}
	ageRating, err := rec.intValue("AgeRating")
	if err != nil {
		return nil, false, err
	}
	rented, err := rec.boolValue("isRented")
	if err != nil {
		return nil, false, err
	}

	categoryName := rec.get("PriceCategory")
	pc, ok := l.categories.Lookup(categoryName)
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", domain.ErrUnknownPriceCategory, categoryName)
	}

	movie, err := domain.NewMovie(rec.get("Title"), releaseDate, pc, ageRating)
	if err != nil {
		return nil, false, err
	}
	if err := movie.AssignID(id); err != nil {
		return nil, false, err
	}

	return movie, rented, nil
}

func parseUser(rec record) (*domain.User, error) {
	id, err := rec.uuidValue("ID")
	if err != nil {
		return nil, err
	}
	birthdate, err := rec.dateValue("Birthdate")
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(rec.get("Surname"), rec.get("FirstName"), birthdate)
	if err != nil {
		return nil, err
	}
	if err := user.AssignID(id); err != nil {
		return nil, err
	}

	return user, nil
}

func parseRental(rec record, users map[uuid.UUID]*domain.User, movies map[uuid.UUID]*domain.Movie) (*domain.Rental, error) {
	id, err := rec.uuidValue("ID")
	if err != nil {
		return nil, err
	}
	rentalDate, err := rec.dateValue("RentalDate")
	if err != nil {
		return nil, err
	}
	userID, err := rec.uuidValue("UserID")
	if err != nil {
		return nil, err
	}
	movieID, err := rec.uuidValue("MovieID")
	if err != nil {
		return nil, err
	}

	user, ok := users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	movie, ok := movies[movieID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMovieNotFound, movieID)
	}
	if movie.IsRented() {
		return nil, fmt.Errorf("movie %s is referenced by more than one rental", movieID)
	}

	return domain.RestoreRental(id, user, movie, rentalDate)
}

// readFile читает CSV-файл построчно и вызывает fn для каждой записи
func (l *Loader) readFile(name string, fn func(rec record) error) error {
	f, err := l.files.Open(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: missing header", name)
		}
		return fmt.Errorf("%s: %w", name, err)
	}

	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))] = i
	}

	count := 0
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		line, _ := r.FieldPos(0)
		if err := fn(record{columns: columns, fields: fields}); err != nil {
			return fmt.Errorf("%s line %d: %w", name, line, err)
		}
		count++
	}

	l.logger.Debug("fixture loaded", map[string]interface{}{
		"file":    name,
		"records": count,
	})

	return nil
}

// record - строка CSV с доступом к полям по имени колонки
type record struct {
	columns map[string]int
	fields  []string
}

func (r record) get(column string) string {
	i, ok := r.columns[column]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r record) uuidValue(column string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.get(column))
	if err != nil {
		return uuid.Nil, fmt.Errorf("column %s: %w", column, err)
	}
	return id, nil
}

func (r record) dateValue(column string) (time.Time, error) {
	d, err := domain.ParseDate(r.get(column))
	if err != nil {
		return time.Time{}, fmt.Errorf("column %s: %w", column, err)
	}
	return d, nil
}

func (r record) intValue(column string) (int, error) {
	v, err := strconv.Atoi(r.get(column))
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", column, err)
	}
	return v, nil
}

func (r record) boolValue(column string) (bool, error) {
	v, err := strconv.ParseBool(r.get(column))
	if err != nil {
		return false, fmt.Errorf("column %s: %w", column, err)
	}
	return v, nil
}
