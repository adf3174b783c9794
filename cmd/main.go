package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/sm8ta/webike_rental_manager/docs"
	httpadapter "github.com/sm8ta/webike_rental_manager/internal/adapter/handler/http"
	"github.com/sm8ta/webike_rental_manager/internal/adapter/logger"
	"github.com/sm8ta/webike_rental_manager/internal/app"
	"github.com/sm8ta/webike_rental_manager/internal/config"
	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pressly/goose"
	"github.com/spf13/cobra"
)

var Version = "dev"

// @title Webike Rental Manager API
// @version 1.0
// @description Back-office API for riders, bikes, rental assignments, payments and maintenance.

// @host localhost:8081
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:     "rental",
		Short:   "Webike fleet rental manager",
		Version: Version,
		RunE:    runServe,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// Loading environment
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Create app
	application, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run()
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		application.Stop(context.Background())
		return err
	case <-stop:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	return application.Stop(shutdownCtx)
}

func migrateCmd() *cobra.Command {
	var down, status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long: `Apply the postgres schema migrations with goose.

Examples:
  rental migrate
  rental migrate --status
  rental migrate --down`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}

			db, err := app.OpenDB(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			dir := cfg.DB.MigrationsDir
			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}
			switch {
			case status:
				return goose.Status(db, dir)
			case down:
				return goose.Down(db, dir)
			default:
				return app.Migrate(db, dir)
			}
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back the most recent migration")
	cmd.Flags().BoolVar(&status, "status", false, "print applied and pending migrations")

	return cmd
}

func reconcileCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Repair drift between assignments, payments, bikes and riders",
		Long: `Recompute every assignment balance from its paid payments and align bike
holders and rider counters with the active assignments.

Examples:
  rental reconcile --dry-run
  rental reconcile`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}

			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to create app: %w", err)
			}
			defer application.Stop(context.Background())

			report, err := application.Services.Reconciler.Reconcile(cmd.Context(), dryRun)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report drift without repairing it")

	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token [operator-id]",
		Short: "Issue a session token for an operator",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}

			operator := uuid.New()
			if len(args) == 1 {
				if operator, err = uuid.Parse(args[0]); err != nil {
					return fmt.Errorf("invalid operator id: %w", err)
				}
			}

			tokens := httpadapter.NewJWTTokenService(cfg.Token.Secret, logger.NewLoggerAdapter(cfg.App.Env))
			token, err := tokens.IssueToken(operator, domain.OperatorRole(role), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", string(domain.RoleOperator), "operator or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
