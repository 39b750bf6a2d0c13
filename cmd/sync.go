package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"roster-sync/core/config"
	"roster-sync/core/database"
	"roster-sync/core/logger"
	"roster-sync/feature/roster"
	"roster-sync/feature/roster/models"
	"roster-sync/feature/roster/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for sync command
	syncCompanies []string
	syncDryRun    bool
	syncReplay    string
)

// syncCmd runs one synchronization per company and exits.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one synchronization and exit",
	Long: `Fetches the employee list of each company and reconciles it into the database.

Examples:
  # Every configured company
  sync

  # One company, report only
  sync --company TRN --dry-run

  # Re-run the newest archived payload instead of calling the API
  sync --company TIR --replay latest`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringSliceVar(&syncCompanies, "company", nil, "Company codes to synchronize (default: scheduler.companies)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Plan only, no writes")
	syncCmd.Flags().StringVar(&syncReplay, "replay", "", "Archived snapshot key, or 'latest', to use instead of the API")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	codes := syncCompanies
	if len(codes) == 0 {
		codes = cfg.Scheduler.Companies
	}
	companies := make([]models.Company, 0, len(codes))
	for _, code := range codes {
		c, ok := models.ParseCompany(code)
		if !ok {
			return fmt.Errorf("unknown company %q", code)
		}
		companies = append(companies, c)
	}
	if syncReplay != "" && syncReplay != roster.LatestSnapshot && len(companies) != 1 {
		return errors.New("--replay with a snapshot key needs exactly one --company")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if !syncDryRun {
		if err := repository.Migrate(db); err != nil {
			return err
		}
	}

	svc, err := newService(ctx, cfg, l, db, nil)
	if err != nil {
		return err
	}

	var errs []error
	for _, company := range companies {
		res, err := svc.Sync(ctx, company, roster.SyncOptions{DryRun: syncDryRun, Replay: syncReplay})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", company, err))
			continue
		}
		printSyncReport(l, res, syncDryRun)
	}
	return errors.Join(errs...)
}

// printSyncReport prints a formatted run report using logger.
func printSyncReport(l *zap.Logger, res *roster.Result, dryRun bool) {
	p := res.Plan.Summary

	l.Info("Synchronization report",
		zap.String("company", string(res.Company)),
		zap.String("run_id", res.RunID),
		zap.Int("fetched", res.Fetched),
		zap.Int("rejected", res.Rejected),
		zap.Int("records", p.Total),
		zap.Int("creates", p.Creates),
		zap.Int("updates", p.Updates),
		zap.Int("renamed_emails", p.Renamed),
		zap.Int("events", p.Events),
	)

	// Show sample of actions (max 5 for logger)
	maxShow := 5
	if len(res.Plan.Actions) < maxShow {
		maxShow = len(res.Plan.Actions)
	}
	for i := 0; i < maxShow; i++ {
		action := res.Plan.Actions[i]
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("external_id", action.ExternalID),
			zap.String("email", action.Email),
			zap.Int("events", action.Events),
		)
	}
	if len(res.Plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(res.Plan.Actions)-maxShow))
	}

	for _, f := range res.Plan.Failures {
		l.Warn("Record not planned", zap.String("external_id", f.ExternalID), zap.String("reason", strings.TrimSpace(f.Reason)))
	}

	if dryRun {
		l.Info("Dry-run mode: No changes were made.")
	}
}
