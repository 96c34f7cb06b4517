// Package crmctl implements the crmdesk administration CLI: companies,
// invitations, fixture seeding and signing key generation.
package crmctl

import (
	"context"
	"fmt"
	"slices"

	entrypoint "github.com/louisbranch/crmdesk/internal/platform/cmd"
	"github.com/louisbranch/crmdesk/internal/platform/logging"
	"github.com/louisbranch/crmdesk/internal/services/crm"
	crmsqlite "github.com/louisbranch/crmdesk/internal/services/crm/storage/sqlite"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Config holds environment defaults shared by every subcommand.
type Config struct {
	CRMDBPath string `env:"CRM_DB_PATH" envDefault:"data/crm.db"`
	PublicURL string `env:"PUBLIC_URL"  envDefault:"http://localhost:8080"`
	LogLevel  string `env:"LOG_LEVEL"   envDefault:"warn"`
}

// LoadConfig reads CRMDESK_ environment defaults.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidFormats lists the accepted --format values.
var ValidFormats = []string{"text", "json"}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config
	Format string

	logger *zap.Logger
}

// NewRootCommand creates the crmctl command tree.
func NewRootCommand(cfg Config) *cobra.Command {
	opts := &RootOptions{Config: cfg}

	cmd := &cobra.Command{
		Use:           "crmctl",
		Short:         "Administer crmdesk companies and invitations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			logger, err := logging.New(entrypoint.ServiceCRMCtl, logging.Config{Level: opts.LogLevel, Development: true})
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.CRMDBPath, "crm-db", opts.CRMDBPath, "path to the CRM SQLite database")
	cmd.PersistentFlags().StringVar(&opts.PublicURL, "public-url", opts.PublicURL, "base URL used to print invite links")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewCompanyCommand(opts))
	cmd.AddCommand(NewInviteCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewSigningKeyCommand())

	return cmd
}

// withService opens the CRM store for the duration of fn.
func (o *RootOptions) withService(ctx context.Context, fn func(*crm.Service) error) error {
	store, err := crmsqlite.Open(ctx, o.CRMDBPath)
	if err != nil {
		return fmt.Errorf("open crm store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.OrNop(o.logger).Warn("close crm store", zap.Error(err))
		}
	}()

	svc, err := crm.NewService(store, o.logger)
	if err != nil {
		return err
	}
	return fn(svc)
}
