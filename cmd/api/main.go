package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/frontandrew/movierental/internal/delivery/http"
	"github.com/frontandrew/movierental/internal/delivery/http/middleware"
	"github.com/frontandrew/movierental/internal/domain"
	"github.com/frontandrew/movierental/internal/pkg/config"
	"github.com/frontandrew/movierental/internal/pkg/database"
	"github.com/frontandrew/movierental/internal/pkg/hash"
	"github.com/frontandrew/movierental/internal/pkg/jwt"
	"github.com/frontandrew/movierental/internal/pkg/lock"
	"github.com/frontandrew/movierental/internal/pkg/logger"
	"github.com/frontandrew/movierental/internal/pkg/redis"
	"github.com/frontandrew/movierental/internal/repository"
	"github.com/frontandrew/movierental/internal/repository/memory"
	"github.com/frontandrew/movierental/internal/repository/postgres"
	"github.com/frontandrew/movierental/internal/seed"
	"github.com/frontandrew/movierental/internal/usecase/auth"
	"github.com/frontandrew/movierental/internal/usecase/mrs"
	"github.com/jackc/pgx/v5/pgxpool"
)

// repositories - выбранный бэкенд хранилища
type repositories struct {
	movies  repository.MovieRepository
	users   repository.UserRepository
	rentals repository.RentalRepository
	// empty - хранилище пустое и его можно заполнить фикстурами
	empty bool
}

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting movie rental API server", map[string]interface{}{
		"version": "1.0.0",
		"storage": cfg.Storage.Backend,
	})

	// =========================================================================
	// Регистрация ценовых категорий (до старта сервера)
	// =========================================================================

	categories := domain.NewPriceCategoryRegistry().RegisterDefaults()
	log.Info("Price categories registered", map[string]interface{}{
		"categories": categories.Names(),
	})

	// =========================================================================
	// Создание repositories
	// =========================================================================

	ctx := context.Background()

	var repos repositories
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := database.Connect(ctx, &cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer database.Close(db)

		log.Info("Connected to PostgreSQL", map[string]interface{}{
			"host":     cfg.Database.Host,
			"port":     cfg.Database.Port,
			"database": cfg.Database.Database,
		})

		repos, err = postgresRepositories(ctx, db, cfg, categories)
		if err != nil {
			log.Fatal("Failed to prepare database", map[string]interface{}{
				"error": err.Error(),
			})
		}

	default:
		store := memory.NewStore()
		repos = repositories{
			movies:  memory.NewMovieRepository(store),
			users:   memory.NewUserRepository(store),
			rentals: memory.NewRentalRepository(store),
			empty:   true,
		}
	}

	log.Info("Repositories initialized")

	// =========================================================================
	// Загрузка фикстур
	// =========================================================================

	if cfg.Storage.Seed && repos.empty {
		data, err := seed.NewLoader(cfg.Storage.SeedDir, categories, log).Load()
		if err != nil {
			log.Fatal("Failed to load seed data", map[string]interface{}{
				"error": err.Error(),
				"dir":   cfg.Storage.SeedDir,
			})
		}
		if err := seed.Apply(ctx, data, repos.movies, repos.users, repos.rentals); err != nil {
			log.Fatal("Failed to apply seed data", map[string]interface{}{
				"error": err.Error(),
			})
		}

		log.Info("Seed data applied", map[string]interface{}{
			"movies":  len(data.Movies),
			"users":   len(data.Users),
			"rentals": len(data.Rentals),
		})
	}

	// =========================================================================
	// Блокировки прокатов: Redis для нескольких инстансов, иначе in-process
	// =========================================================================

	var locker lock.Locker = lock.NewLocal()
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer redisClient.Close()

		locker = redis.NewLocker(redisClient, cfg.Redis.LockTTL)
		log.Info("Using Redis rental locks", map[string]interface{}{
			"address": cfg.Redis.Address(),
			"ttl":     cfg.Redis.LockTTL.String(),
		})
	}

	// =========================================================================
	// Создание use case services
	// =========================================================================

	tokenService := jwt.NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	mrsService := mrs.NewService(repos.movies, repos.users, repos.rentals, categories, locker, log)

	hasher, err := hash.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatal("Invalid bcrypt cost", map[string]interface{}{
			"error": err.Error(),
		})
	}

	authService, err := auth.NewService(cfg.Auth.Username, cfg.Auth.Password, hasher, tokenService, log)
	if err != nil {
		log.Fatal("Failed to initialize auth service", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание HTTP handlers и router
	// =========================================================================

	var rateLimiter *middleware.RateLimiter
	stopCleanup := make(chan struct{})
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		})
		go rateLimiter.Run(stopCleanup)
	}
	defer close(stopCleanup)

	router := deliveryHTTP.NewRouter(
		deliveryHTTP.NewMovieHandler(mrsService, categories, log),
		deliveryHTTP.NewUserHandler(mrsService, log),
		deliveryHTTP.NewRentalHandler(mrsService, log),
		deliveryHTTP.NewAuthHandler(authService, log),
		authService,
		rateLimiter,
		cfg,
		log,
	)

	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Создание HTTP сервера
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", map[string]interface{}{
				"error": err.Error(),
			})
		}

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			if err := srv.Close(); err != nil {
				log.Error("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}

// postgresRepositories применяет схему и проверяет, пуста ли база
func postgresRepositories(ctx context.Context, db *pgxpool.Pool, cfg *config.Config, categories *domain.PriceCategoryRegistry) (repositories, error) {
	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return repositories{}, err
		}
	}

	empty, err := database.IsEmpty(ctx, db)
	if err != nil {
		return repositories{}, err
	}

	return repositories{
		movies:  postgres.NewMovieRepository(db, categories),
		users:   postgres.NewUserRepository(db, categories),
		rentals: postgres.NewRentalRepository(db, categories),
		empty:   empty,
	}, nil
}
