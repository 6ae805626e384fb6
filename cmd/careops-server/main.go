package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/careops/careops/internal/config"
	"github.com/careops/careops/internal/domain/appointment"
	"github.com/careops/careops/internal/domain/archive"
	"github.com/careops/careops/internal/domain/identity"
	"github.com/careops/careops/internal/domain/laborder"
	"github.com/careops/careops/internal/domain/patient"
	"github.com/careops/careops/internal/domain/prescription"
	"github.com/careops/careops/internal/domain/shift"
	"github.com/careops/careops/internal/domain/tenant"
	"github.com/careops/careops/internal/domain/timelog"
	"github.com/careops/careops/internal/platform/auth"
	"github.com/careops/careops/internal/platform/db"
	"github.com/careops/careops/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "careops-server",
		Short: "Healthcare operations API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tenantCmd())
	rootCmd.AddCommand(userCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
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
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
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
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Onboard a new tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			kind, _ := cmd.Flags().GetString("kind")
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := tenant.NewService(tenant.NewRepo(pool))
			t := &tenant.Tenant{Name: name, Kind: tenant.Kind(kind)}
			if err := svc.Create(ctx, t); err != nil {
				return err
			}
			fmt.Printf("Tenant created: %s (slug %s)\n", t.ID, t.Slug)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Tenant display name")
	createCmd.Flags().String("kind", "hospital", "Tenant kind (hospital, pharmacy, laboratory, clinic, ...)")
	cmd.AddCommand(createCmd)

	return cmd
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user in a tenant (bootstrap path, no auth required)",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			role, _ := cmd.Flags().GetString("role")
			password, _ := cmd.Flags().GetString("password")
			tenantSel, _ := cmd.Flags().GetString("tenant")
			if email == "" || password == "" || tenantSel == "" {
				return fmt.Errorf("--email, --password and --tenant are required")
			}
			if !auth.Role(role).Valid() {
				return fmt.Errorf("invalid role: %q", role)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			tn, err := tenant.NewService(tenant.NewRepo(pool)).Resolve(ctx, tenantSel)
			if err != nil {
				return err
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			u := &identity.User{
				TenantID:     tn.ID,
				Email:        email,
				FullName:     name,
				Role:         auth.Role(role),
				PasswordHash: string(hash),
				Active:       true,
			}
			if err := identity.NewRepo(pool).Create(ctx, u); err != nil {
				return err
			}
			fmt.Printf("User created: %s (%s in %s)\n", u.ID, u.Role, tn.Slug)
			return nil
		},
	}
	createCmd.Flags().String("email", "", "User email")
	createCmd.Flags().String("name", "", "Full name")
	createCmd.Flags().String("role", "tenant_admin", "User role")
	createCmd.Flags().String("password", "", "Initial password")
	createCmd.Flags().String("tenant", "", "Tenant slug or id")
	cmd.AddCommand(createCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret))

	// Repositories
	tenantRepo := tenant.NewRepo(pool)
	userRepo := identity.NewRepo(pool)
	patientRepo := patient.NewRepo(pool)
	prescriptionRepo := prescription.NewRepo(pool)
	labOrderRepo := laborder.NewRepo(pool)
	appointmentRepo := appointment.NewRepo(pool)
	shiftRepo := shift.NewRepo(pool)
	archiveRepo := archive.NewRepo(pool)
	timeLogRepo := timelog.NewRepo(pool)

	// Services
	tenantSvc := tenant.NewService(tenantRepo)
	identitySvc := identity.NewService(userRepo, tenantSvc, issuer)
	patientSvc := patient.NewService(patientRepo)
	prescriptionSvc := prescription.NewService(prescriptionRepo)
	labOrderSvc := laborder.NewService(labOrderRepo)
	appointmentSvc := appointment.NewService(appointmentRepo)

	archiveSvc := archive.NewService(archiveRepo)
	archiveSvc.RegisterSource(patient.NewArchiveSource(patientRepo))
	archiveSvc.RegisterSource(prescription.NewArchiveSource(prescriptionRepo))
	archiveSvc.RegisterSource(laborder.NewArchiveSource(labOrderRepo))
	archiveSvc.RegisterSource(appointment.NewArchiveSource(appointmentRepo))

	shiftSvc := shift.NewService(shiftRepo, archiveSvc)
	timeLogSvc := timelog.NewService(timeLogRepo)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(auth.Middleware(issuer, auth.DefaultSkipper))
	e.Use(middleware.Audit(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Handlers
	tenant.NewHandler(tenantSvc).RegisterRoutes(apiV1)
	identity.NewHandler(identitySvc).RegisterRoutes(apiV1)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	prescription.NewHandler(prescriptionSvc).RegisterRoutes(apiV1)
	laborder.NewHandler(labOrderSvc).RegisterRoutes(apiV1)
	appointment.NewHandler(appointmentSvc).RegisterRoutes(apiV1)
	shift.NewHandler(shiftSvc).RegisterRoutes(apiV1)
	archive.NewHandler(archiveSvc).RegisterRoutes(apiV1)
	timelog.NewHandler(timeLogSvc).RegisterRoutes(apiV1)

	// Graceful shutdown
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
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
