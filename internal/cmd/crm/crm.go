// Package crm wires the crmdesk web process: identity and CRM stores, the
// web modules, and the HTTP and gRPC health listeners.
package crm

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/crmdesk/internal/platform/cmd"
	"github.com/louisbranch/crmdesk/internal/platform/i18n"
	"github.com/louisbranch/crmdesk/internal/platform/logging"
	crmsqlite "github.com/louisbranch/crmdesk/internal/services/crm/storage/sqlite"
	"github.com/louisbranch/crmdesk/internal/services/identity"
	identitysqlite "github.com/louisbranch/crmdesk/internal/services/identity/storage/sqlite"
	"github.com/louisbranch/crmdesk/internal/services/identity/token"
	webapp "github.com/louisbranch/crmdesk/internal/services/web/app"
	"github.com/louisbranch/crmdesk/internal/services/web/module"
	"github.com/louisbranch/crmdesk/internal/services/web/modules/assistant"
	"github.com/louisbranch/crmdesk/internal/services/web/modules/register"
	"github.com/louisbranch/crmdesk/internal/services/web/modules/signin"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
	"github.com/louisbranch/crmdesk/internal/services/web/session"
	"go.uber.org/zap"
)

// Config holds crm command configuration.
type Config struct {
	HTTPAddr                 string        `env:"HTTP_ADDR"                  envDefault:":8080"`
	GRPCPort                 int           `env:"GRPC_PORT"                  envDefault:"8081"`
	IdentityDBPath           string        `env:"IDENTITY_DB_PATH"           envDefault:"data/identity.db"`
	CRMDBPath                string        `env:"CRM_DB_PATH"                envDefault:"data/crm.db"`
	JWTSigningKey            string        `env:"JWT_SIGNING_KEY"`
	JWTIssuer                string        `env:"JWT_ISSUER"                 envDefault:"crmdesk"`
	AccessTokenTTL           time.Duration `env:"ACCESS_TOKEN_TTL"           envDefault:"12h"`
	RequireEmailConfirmation bool          `env:"REQUIRE_EMAIL_CONFIRMATION" envDefault:"true"`
	PublicURL                string        `env:"PUBLIC_URL"                 envDefault:"http://localhost:8080"`
	TrustForwardedProto      bool          `env:"TRUST_FORWARDED_PROTO"      envDefault:"false"`
	LogLevel                 string        `env:"LOG_LEVEL"                  envDefault:"info"`
	LogDevelopment           bool          `env:"LOG_DEVELOPMENT"            envDefault:"false"`
}

// ParseConfig reads CRMDESK_ environment defaults and lets flags override them.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The HTTP listen address")
	fs.IntVar(&cfg.GRPCPort, "grpc-port", cfg.GRPCPort, "The gRPC health server port")
	fs.StringVar(&cfg.IdentityDBPath, "identity-db", cfg.IdentityDBPath, "Path to the identity SQLite database")
	fs.StringVar(&cfg.CRMDBPath, "crm-db", cfg.CRMDBPath, "Path to the CRM SQLite database")
	fs.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "Externally reachable base URL used in email links")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SigningKey decodes the hex JWT signing key.
func (c Config) SigningKey() ([]byte, error) {
	raw := strings.TrimSpace(c.JWTSigningKey)
	if raw == "" {
		return nil, errors.New("CRMDESK_JWT_SIGNING_KEY is required (generate one with crmctl signing-key)")
	}
	key, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode signing key: %w", err)
	}
	return key, nil
}

// Run serves the web process until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(entrypoint.ServiceCRM, logging.Config{Level: cfg.LogLevel, Development: cfg.LogDevelopment})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceCRM, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		app, cleanup, err := Build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		server, err := webapp.NewServer(webapp.ServerConfig{
			HTTPAddr:       cfg.HTTPAddr,
			GRPCAddr:       ":" + strconv.Itoa(cfg.GRPCPort),
			Handler:        app.Handler,
			Logger:         logger,
			HealthServices: []string{entrypoint.ServiceCRM},
		})
		if err != nil {
			return err
		}
		return server.Serve(ctx)
	})
}

// App is the assembled web process.
type App struct {
	Handler  http.Handler
	Identity *identity.Service
	CRMStore *crmsqlite.Store
}

// Build opens the stores and composes the web handler. The returned cleanup
// closes everything Build opened.
func Build(ctx context.Context, cfg Config, logger *zap.Logger) (App, func(), error) {
	logger = logging.OrNop(logger)
	key, err := cfg.SigningKey()
	if err != nil {
		return App{}, nil, err
	}
	tokens, err := token.NewManager(key, cfg.JWTIssuer, cfg.AccessTokenTTL, nil)
	if err != nil {
		return App{}, nil, err
	}
	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		return App{}, nil, fmt.Errorf("load locales: %w", err)
	}

	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("close resource", zap.Error(err))
			}
		}
	}
	fail := func(err error) (App, func(), error) {
		cleanup()
		return App{}, nil, err
	}

	identityStore, err := identitysqlite.Open(ctx, cfg.IdentityDBPath)
	if err != nil {
		return fail(fmt.Errorf("open identity store: %w", err))
	}
	closers = append(closers, identityStore.Close)

	crmStore, err := crmsqlite.Open(ctx, cfg.CRMDBPath)
	if err != nil {
		return fail(fmt.Errorf("open crm store: %w", err))
	}
	closers = append(closers, crmStore.Close)

	accounts, err := identity.NewService(identityStore, tokens, identity.Config{
		RequireEmailConfirmation: cfg.RequireEmailConfirmation,
		PublicURL:                cfg.PublicURL,
		ConfirmPath:              routepath.AuthConfirmWithToken,
	}, logger.Named("identity"))
	if err != nil {
		return fail(err)
	}
	registerService, err := register.NewService(accounts, crmStore, crmStore, crmStore, logger.Named("register"))
	if err != nil {
		return fail(err)
	}
	registry := assistant.NewRegistry(nil)
	closers = append(closers, func() error { registry.Close(); return nil })

	policy := requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}
	handler, err := webapp.BuildRootHandler(webapp.Config{
		PublicModules: []module.Module{
			register.New(registerService, policy, logger.Named("register")),
			signin.New(accounts, policy, logger.Named("signin"), signin.WithSignOutHook(registry.Forget)),
		},
		ProtectedModules: []module.Module{
			assistant.New(registry, policy, logger.Named("assistant")),
		},
		Sessions:            session.NewProvider(accounts, crmStore, logger.Named("session")),
		Bundle:              bundle,
		Logger:              logger,
		RequestSchemePolicy: policy,
		Ready: func(ctx context.Context) error {
			if err := identityStore.DB().PingContext(ctx); err != nil {
				return fmt.Errorf("identity store: %w", err)
			}
			if err := crmStore.DB().PingContext(ctx); err != nil {
				return fmt.Errorf("crm store: %w", err)
			}
			return nil
		},
	})
	if err != nil {
		return fail(err)
	}
	return App{Handler: handler, Identity: accounts, CRMStore: crmStore}, cleanup, nil
}
