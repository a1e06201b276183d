package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dentalportal/portal/internal/config"
	"github.com/dentalportal/portal/internal/domain/identity"
	"github.com/dentalportal/portal/internal/domain/scheduling"
	"github.com/dentalportal/portal/internal/platform/db"
	"github.com/dentalportal/portal/internal/platform/docstore"
	"github.com/dentalportal/portal/internal/platform/lock"
	"github.com/dentalportal/portal/internal/platform/middleware"
	"github.com/dentalportal/portal/migrations"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "portal-server",
		Short: "Dental clinic booking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(indexesCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	if os.Getenv("ENV") == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run postgres migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			return withMigrator(dir, func(ctx context.Context, m *db.Migrator) error {
				count, err := m.Up(ctx)
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Printf("Applied %d migration(s) successfully.\n", count)
				return nil
			})
		},
	}
	upCmd.Flags().String("dir", "", "Read migrations from this directory instead of the embedded set")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			return withMigrator(dir, func(ctx context.Context, m *db.Migrator) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}
				fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
				fmt.Println("---------- ---------------------------------------- ---------- --------------------")
				for _, s := range statuses {
					status := "pending"
					appliedAt := ""
					if s.Applied {
						status = "applied"
						if s.AppliedAt != nil {
							appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
						}
					}
					fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
				}
				return nil
			})
		},
	}
	statusCmd.Flags().String("dir", "", "Read migrations from this directory instead of the embedded set")
	cmd.AddCommand(statusCmd)

	return cmd
}

func withMigrator(dir string, fn func(ctx context.Context, m *db.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.StoreDriver != config.DriverPostgres {
		return fmt.Errorf("migrations apply to the postgres store only (STORE_DRIVER=%s)", cfg.StoreDriver)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	var files fs.FS = migrations.FS
	if dir != "" {
		files = os.DirFS(dir)
	}
	return fn(ctx, db.NewMigrator(pool, files))
}

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create mongo indexes for the portal collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StoreDriver != config.DriverMongo {
				return fmt.Errorf("indexes apply to the mongo store only (STORE_DRIVER=%s)", cfg.StoreDriver)
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			client, err := docstore.Connect(ctx, cfg.ResolvedMongoURI())
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			names, err := docstore.EnsureIndexes(ctx, client.Database(cfg.MongoDatabase))
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Println(n)
			}
			fmt.Printf("Ensured %d index(es).\n", len(names))
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the treatment catalog and sample doctors",
		RunE: func(cmd *cobra.Command, args []string) error {
			doctors, _ := cmd.Flags().GetInt("doctors")
			seed, _ := cmd.Flags().GetUint64("seed")
			adminEmail, _ := cmd.Flags().GetString("admin")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			b, err := openBackend(ctx, cfg)
			if err != nil {
				return err
			}
			defer b.close(context.Background())

			svcs := newServices(cfg, b, lock.Noop{})

			catalog := scheduling.DefaultCatalog()
			added, err := svcs.scheduling.SeedTreatments(ctx, catalog)
			if err != nil {
				return fmt.Errorf("seed treatments: %w", err)
			}
			fmt.Printf("Added %d treatment(s).\n", added)

			specialties := make([]string, 0, len(catalog))
			for _, t := range catalog {
				specialties = append(specialties, t.Name)
			}
			for _, d := range identity.FakeDoctors(gofakeit.New(seed), doctors, specialties) {
				if _, err := svcs.identity.AddDoctor(ctx, d); err != nil {
					return fmt.Errorf("seed doctor %s: %w", d.Email, err)
				}
			}
			fmt.Printf("Added %d doctor(s).\n", doctors)

			if adminEmail != "" {
				changed, err := svcs.identity.EnsureAdmin(ctx, adminEmail)
				if err != nil {
					return fmt.Errorf("seed admin: %w", err)
				}
				if changed {
					fmt.Printf("Granted admin to %s.\n", adminEmail)
				}
			}
			return nil
		},
	}
	cmd.Flags().Int("doctors", 10, "Number of fake doctors to create")
	cmd.Flags().Uint64("seed", 0, "Random seed for generated data (0 picks one)")
	cmd.Flags().String("admin", "", "Email to create or promote as admin")
	return cmd
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to connect to store")
	}
	logger.Info().Str("driver", cfg.StoreDriver).Msg("connected to store")

	locker, rdb, err := openLocker(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	checks := b.checks
	if rdb != nil {
		checks = append(checks, lock.Check(rdb))
		logger.Info().Msg("booking admission serialized through redis")
	}

	limiter := middleware.NewIPRateLimiter(cfg.TokenRateRPS, cfg.TokenRateBurst)
	go limiter.Janitor(ctx, time.Minute, 5*time.Minute)

	e := newRouter(cfg, logger, newServices(cfg, b, locker), limiter, checks)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	stop()
	b.close(shutdownCtx)
	if rdb != nil {
		_ = rdb.Close()
	}
	logger.Info().Msg("server stopped")
	return nil
}
