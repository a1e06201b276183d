package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dentalportal/portal/internal/config"
	"github.com/dentalportal/portal/internal/domain/identity"
	"github.com/dentalportal/portal/internal/domain/scheduling"
	"github.com/dentalportal/portal/internal/platform/auth"
	"github.com/dentalportal/portal/internal/platform/db"
	"github.com/dentalportal/portal/internal/platform/docstore"
	"github.com/dentalportal/portal/internal/platform/lock"
	"github.com/dentalportal/portal/internal/platform/middleware"
	"github.com/dentalportal/portal/internal/platform/validate"
)

// backend is the set of repositories behind one STORE_DRIVER.
type backend struct {
	treatments scheduling.TreatmentRepository
	bookings   scheduling.BookingRepository
	users      identity.UserRepository
	doctors    identity.DoctorRepository
	checks     []db.Check
	close      func(ctx context.Context)
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		return &backend{
			treatments: scheduling.NewTreatmentRepoPG(pool),
			bookings:   scheduling.NewBookingRepoPG(pool),
			users:      identity.NewUserRepoPG(pool),
			doctors:    identity.NewDoctorRepoPG(pool),
			checks:     []db.Check{db.PoolCheck(pool)},
			close:      func(context.Context) { pool.Close() },
		}, nil
	default:
		client, err := docstore.Connect(ctx, cfg.ResolvedMongoURI())
		if err != nil {
			return nil, err
		}
		database := client.Database(cfg.MongoDatabase)
		return &backend{
			treatments: scheduling.NewTreatmentRepoMongo(database),
			bookings:   scheduling.NewBookingRepoMongo(database),
			users:      identity.NewUserRepoMongo(database),
			doctors:    identity.NewDoctorRepoMongo(database),
			checks:     []db.Check{docstore.Check(client)},
			close:      func(ctx context.Context) { _ = client.Disconnect(ctx) },
		}, nil
	}
}

// openLocker returns a redis-backed locker when REDIS_URL is set. The
// returned client is nil otherwise.
func openLocker(ctx context.Context, cfg *config.Config) (lock.Locker, *redis.Client, error) {
	if cfg.RedisURL == "" {
		return lock.Noop{}, nil, nil
	}
	client, err := lock.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return lock.NewRedisLocker(client, cfg.LockTTL), client, nil
}

type services struct {
	scheduling *scheduling.Service
	identity   *identity.Service
	issuer     *auth.Issuer
}

func newServices(cfg *config.Config, b *backend, locker lock.Locker) *services {
	issuer := auth.NewIssuer(cfg.AccessToken, cfg.TokenTTL)
	return &services{
		scheduling: scheduling.NewService(b.treatments, b.bookings,
			scheduling.WithLocker(locker),
			scheduling.WithStrictTreatments(cfg.StrictTreatments),
		),
		identity: identity.NewService(b.users, b.doctors, issuer),
		issuer:   issuer,
	}
}

func newRouter(cfg *config.Config, logger zerolog.Logger, svcs *services, limiter *middleware.IPRateLimiter, checks []db.Check) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validate.New()

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.RequestIDHeader},
	}))
	e.Use(echomw.BodyLimit("1M"))
	if cfg.StoreTimeout > 0 {
		e.Use(middleware.RequestTimeout(cfg.StoreTimeout))
	}

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "doctors portal server")
	})
	e.GET("/health", db.HealthHandler(checks...))

	verify := auth.VerifyToken(svcs.issuer)
	admin := auth.RequireAdmin(svcs.identity)

	api := e.Group("")
	scheduling.NewHandler(svcs.scheduling).RegisterRoutes(api, verify)
	identity.NewHandler(svcs.identity).RegisterRoutes(api, verify, admin, middleware.RateLimit(limiter))

	return e
}
