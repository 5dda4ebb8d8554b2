package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hance08/txgate/internal/auth"
	"github.com/hance08/txgate/internal/capability"
	"github.com/hance08/txgate/internal/config"
	"github.com/hance08/txgate/internal/logging"
	"github.com/hance08/txgate/internal/notify"
	"github.com/hance08/txgate/internal/service"
	"github.com/hance08/txgate/internal/store"
)

type App struct {
	Service       *service.Service
	Store         store.Repository
	Authenticator *auth.Authenticator
	Authorizer    auth.Authorizer
	Logger        *zap.Logger
}

// NewApp initialize logger, database, notifier and core logic, then return App entity
func NewApp(cfg *config.Config, migrationFS fs.FS) (*App, func(), error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	dbPathRaw := cfg.Database.Path
	if dbPathRaw == "" {
		appDir, _ := DataDir()
		dbPathRaw = filepath.Join(appDir, "txgate.db")
	}

	dbStore, err := store.NewStore(dbPathRaw, migrationFS)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	issuer, err := capability.NewIssuer(cfg.Links.Secret, cfg.Links.TTL)
	if err != nil {
		dbStore.Close()
		return nil, nil, fmt.Errorf("failed to initialize link signer: %w", err)
	}

	notifier, err := NewNotifier(cfg, logger)
	if err != nil {
		dbStore.Close()
		return nil, nil, err
	}
	dispatcher := notify.NewDispatcher(notifier, logger, cfg.Notify.Timeout)

	authorizer := auth.NewRoleAuthorizer(cfg.Auth.Roles)

	svc := service.NewService(service.Deps{
		Repo:       dbStore,
		Config:     cfg,
		Logger:     logger,
		Authorizer: authorizer,
		Issuer:     issuer,
		Dispatcher: dispatcher,
	})

	logger.Debug("application initialized",
		zap.String("database", dbPathRaw),
		zap.String("notify_driver", cfg.Notify.Driver),
	)

	cleanup := func() {
		dispatcher.Close()
		if err := dbStore.Close(); err != nil {
			fmt.Printf("Error closing DB: %v\n", err)
		}
		_ = logger.Sync()
	}

	return &App{
		Service:       svc,
		Store:         dbStore,
		Authenticator: auth.NewAuthenticator(cfg.Auth.Users),
		Authorizer:    authorizer,
		Logger:        logger,
	}, cleanup, nil
}

// NewNotifier builds the admin notification channel selected by notify.driver.
func NewNotifier(cfg *config.Config, logger *zap.Logger) (notify.Notifier, error) {
	links := notify.Links{BaseURL: cfg.Links.BaseURL}

	switch cfg.Notify.Driver {
	case config.DriverMail:
		return notify.NewMailNotifier(cfg.Mail, cfg.Admin.Email, links), nil
	case config.DriverDiscord:
		n, err := notify.NewDiscordNotifier(cfg.Discord.Token, cfg.Discord.ChannelID, links)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize discord notifier: %w", err)
		}
		return n, nil
	case config.DriverLog, "":
		return notify.NewLogNotifier(logger, links), nil
	default:
		return nil, fmt.Errorf("unknown notify driver %q", cfg.Notify.Driver)
	}
}

// DataDir returns the per-user directory holding config.yaml and the database.
func DataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, ".txgate"), nil
	}

	return filepath.Join(configDir, "txgate"), nil
}
