package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/gamehub/portal/internal/adapters/catalog"
	"github.com/gamehub/portal/internal/adapters/repository"
	"github.com/gamehub/portal/internal/application/seo"
	"github.com/gamehub/portal/internal/application/services"
	"github.com/gamehub/portal/internal/infrastructure/config"
	"github.com/gamehub/portal/internal/infrastructure/database"
	"github.com/gamehub/portal/internal/infrastructure/logger"
	"github.com/gamehub/portal/internal/infrastructure/metrics"
	"github.com/gamehub/portal/internal/infrastructure/server"
)

// Build information, set with -ldflags "-X".
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the GameHub web server",
		Long:  "Load the catalog, open visitor storage and serve the site, the JSON API and the suggestion stream until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage the postgres visitor storage schema (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration("up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration("down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewSitemapCommand creates the command that writes sitemap.xml and robots.txt
func NewSitemapCommand() *cobra.Command {
	sitemapCmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Write sitemap.xml and robots.txt",
		Long:  "Render sitemap.xml and robots.txt for the configured catalog and site URL into a directory, for static hosting",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			return writeSitemap(cmd.Context(), out)
		},
	}

	sitemapCmd.Flags().String("out", "public", "Output directory")
	return sitemapCmd
}

// NewCatalogCommand creates the catalog management command
func NewCatalogCommand() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog commands",
	}

	catalogCmd.AddCommand(&cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a catalog file",
		Long:  "Check a YAML or JSON catalog against the schema and the catalog rules. Without a path the embedded catalog is checked.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return validateCatalog(cmd.Context(), path)
		},
	})

	return catalogCmd
}

// NewAdminCommand creates the admin helper command
func NewAdminCommand() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration helpers",
	}

	hashCmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				return errors.New("password is required")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			fmt.Println(string(hash))
			return nil
		},
	}
	hashCmd.Flags().String("password", "", "Admin password (required)")

	adminCmd.AddCommand(hashCmd)
	return adminCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print GameHub version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("GameHub %s\n", Version)
			fmt.Printf("Build Date: %s\n", BuildDate)
			fmt.Printf("Git Commit: %s\n", GitCommit)
		},
	}
}

func runServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	kv, err := repository.NewKeyValueStore(cfg)
	if err != nil {
		appLogger.Errorw("Failed to open visitor storage", "driver", cfg.Storage.Driver, "error", err)
		return err
	}
	defer kv.Close()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, server.Dependencies{
		Storage: kv,
		Catalog: catalog.NewLoader(cfg.Catalog.Path),
		Metrics: m,
		Logger:  appLogger,
	})
	if err != nil {
		appLogger.Errorw("Failed to initialize server", "error", err)
		return err
	}

	appLogger.Infow("Starting GameHub server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"storage", cfg.Storage.Driver,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Errorw("Server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorw("Graceful shutdown failed", "error", err)
		return err
	}
	appLogger.Infow("Server stopped")
	return nil
}

func openMigrator() (*migrate.Migrate, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	m, err := database.NewMigrator(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return m, db, nil
}

func runMigration(direction string) error {
	m, db, err := openMigrator()
	if err != nil {
		return err
	}
	defer db.Close()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("No migrations to run")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Printf("Migration %s completed successfully\n", direction)
	return nil
}

func showMigrationVersion() error {
	m, db, err := openMigrator()
	if err != nil {
		return err
	}
	defer db.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("No migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	fmt.Printf("Dirty: %t\n", dirty)
	return nil
}

func writeSitemap(ctx context.Context, out string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	c, err := catalog.NewLoader(cfg.Catalog.Path).Load(ctx)
	if err != nil {
		return err
	}
	repo, err := repository.NewCatalogRepository(c)
	if err != nil {
		return err
	}

	seoService, err := services.NewSEOService(repo, seo.NewGenerator(seo.Site{
		Name:          cfg.Site.Name,
		BaseURL:       cfg.Site.BaseURL,
		DefaultImage:  cfg.Site.DefaultImage,
		TwitterHandle: cfg.Site.TwitterHandle,
		RatingDivisor: cfg.Site.RatingDivisor,
	}))
	if err != nil {
		return err
	}

	sitemap, err := seoService.Sitemap(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := os.WriteFile(filepath.Join(out, "sitemap.xml"), sitemap, 0o644); err != nil {
		return fmt.Errorf("failed to write sitemap: %w", err)
	}
	if err := os.WriteFile(filepath.Join(out, "robots.txt"), []byte(seoService.Robots()), 0o644); err != nil {
		return fmt.Errorf("failed to write robots.txt: %w", err)
	}

	fmt.Printf("Wrote sitemap.xml and robots.txt to %s (%d games, %d categories)\n", out, len(c.Games), len(c.Categories))
	return nil
}

func validateCatalog(ctx context.Context, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := catalog.NewLoader(path).Load(ctx)
	if err != nil {
		return err
	}
	if _, err := repository.NewCatalogRepository(c); err != nil {
		return err
	}

	source := path
	if source == "" {
		source = "embedded catalog"
	}
	fmt.Printf("%s is valid: %d games, %d categories\n", source, len(c.Games), len(c.Categories))
	return nil
}
