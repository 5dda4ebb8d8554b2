package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hance08/txgate/cmd/transaction"
	"github.com/hance08/txgate/internal/app"
	"github.com/hance08/txgate/internal/config"
	"github.com/hance08/txgate/internal/errhandler"
)

var (
	cfgFile string
	cfg     *config.Config
)

func Execute(migrations fs.FS) {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	// --config must be known before cobra runs, since the commands are
	// built around an already opened App.
	cfgFile = configFlag(os.Args[1:])

	if err := loadDotEnv(); err != nil {
		errhandler.Exit(err)
	}

	if err := initConfig(); err != nil {
		errhandler.Exit(err)
	}

	if err := cfg.Validate(); err != nil {
		errhandler.Exit(fmt.Errorf("invalid configuration: %w", err))
	}

	application, cleanup, err := app.NewApp(cfg, migrations)
	if err != nil {
		errhandler.Exit(err)
	}

	rootCmd := &cobra.Command{
		Use:           "txgate",
		Short:         "txgate is a transaction approval gateway",
		Long:          `txgate records transaction requests and routes them to an administrator for approval.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "set the config file path")

	rootCmd.AddCommand(transaction.NewTransactionCmd(application.Service, application.Authenticator))

	rootCmd.AddCommand(NewSubmitCmd(application.Service))
	rootCmd.AddCommand(NewListCmd(application.Service))
	rootCmd.AddCommand(NewPendingCmd(application.Service))
	rootCmd.AddCommand(NewHistoryCmd(application.Service))
	rootCmd.AddCommand(NewStatsCmd(application.Service))
	rootCmd.AddCommand(NewLinkCmd(application.Service))
	rootCmd.AddCommand(NewServeCmd(application))
	rootCmd.AddCommand(NewUserCmd(application.Service))
	rootCmd.AddCommand(NewInfoCmd(application.Service))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = rootCmd.ExecuteContext(ctx)
	stop()
	cleanup()
	if err != nil {
		errhandler.Exit(err)
	}
}

// configFlag pulls --config/-c out of args ahead of cobra's own parsing.
func configFlag(args []string) string {
	flags := pflag.NewFlagSet("txgate", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.SetOutput(io.Discard)
	flags.Usage = func() {}

	path := flags.StringP("config", "c", "", "")
	_ = flags.Parse(args)
	return *path
}

// loadDotEnv lets a .env file in the working directory provide TXGATE_* overrides.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func initConfig() error {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		appDir, err := app.DataDir()
		if err != nil {
			return fmt.Errorf("error getting app dir: %w", err)
		}

		viper.AddConfigPath(appDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if err := createDefaultConfig(); err != nil {
			return fmt.Errorf("failed to ensure config file: %w", err)
		}
	}

	viper.SetEnvPrefix("TXGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // allow using environment variables to override

	if err := viper.ReadInConfig(); err != nil {

		if cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("config file error: %w", err)
		}
	}

	if err := ensureLinkSecret(); err != nil {
		return err
	}

	cfg = config.NewDefault()
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode into struct, %v", err)
	}

	cfg.ConfigPath = viper.ConfigFileUsed()

	dbPath, err := expandPath(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to expand database path: %w", err)
	}
	cfg.Database.Path = dbPath

	return nil
}

func setDefaults() {
	d := config.NewDefault()

	viper.SetDefault("database.path", d.Database.Path)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)
	viper.SetDefault("admin.email", d.Admin.Email)
	viper.SetDefault("links.base_url", d.Links.BaseURL)
	viper.SetDefault("links.secret", "")
	viper.SetDefault("links.ttl", d.Links.TTL.String())
	viper.SetDefault("mail.host", d.Mail.Host)
	viper.SetDefault("mail.port", d.Mail.Port)
	viper.SetDefault("mail.username", "")
	viper.SetDefault("mail.password", "")
	viper.SetDefault("mail.from", d.Mail.From)
	viper.SetDefault("mail.use_tls", d.Mail.UseTLS)
	viper.SetDefault("discord.token", "")
	viper.SetDefault("discord.channel_id", "")
	viper.SetDefault("notify.driver", d.Notify.Driver)
	viper.SetDefault("notify.timeout", d.Notify.Timeout.String())
	viper.SetDefault("allocation.max_attempts", d.Allocation.MaxAttempts)
	viper.SetDefault("allocation.base_delay", d.Allocation.BaseDelay.String())
	viper.SetDefault("server.addr", d.Server.Addr)
}

// ensureLinkSecret generates and persists a signing secret on first run so
// approval links survive restarts.
func ensureLinkSecret() error {
	if viper.GetString("links.secret") != "" {
		return nil
	}

	secret := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	viper.Set("links.secret", secret)

	if viper.ConfigFileUsed() == "" {
		pterm.Warning.Println("No config file in use, approval links will not survive a restart")
		return nil
	}

	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save config to file: %w", err)
	}

	pterm.Success.Println("Configuration saved. Generated a new approval link secret.")
	return nil
}

func createDefaultConfig() error {
	appDir, err := app.DataDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(appDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
			return filepath.Join(home, path[2:]), nil
		}
	}
	return path, nil
}
