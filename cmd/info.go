package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hance08/txgate/internal/app"
	"github.com/hance08/txgate/internal/service"
	"github.com/hance08/txgate/internal/ui/views"
)

type infoRunner struct {
	svc *service.Service
}

func NewInfoCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display application information",
		Long:  `Display current configuration, database path, and system details.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &infoRunner{
				svc: svc,
			}

			return runner.Run()
		},
	}
}

func (r *infoRunner) Run() error {
	conf := r.svc.Config

	configPath := conf.ConfigPath
	if configPath == "" {
		configPath = "(None, using defaults)"
	}

	appDir := getAppDataDirOrUnknown()

	rawDBPath := conf.Database.Path
	if rawDBPath == "" {
		rawDBPath = filepath.Join(appDir, "txgate.db")
	}
	expandedDBPath, _ := expandPath(rawDBPath)

	dbExists := false
	if _, err := os.Stat(expandedDBPath); err == nil {
		dbExists = true
	}

	items := views.SystemInfoItem{
		ConfigPath:   configPath,
		DBPath:       expandedDBPath,
		DBExists:     dbExists,
		NotifyDriver: conf.Notify.Driver,
		LinkBaseURL:  conf.Links.BaseURL,
		ServerAddr:   conf.Server.Addr,
		Users:        len(conf.Auth.Users),
		AppDataDir:   appDir,
	}

	return views.RenderSystemInfo(items)
}

func getAppDataDirOrUnknown() string {
	dir, err := app.DataDir()
	if err != nil {
		return "Unknown"
	}
	return dir
}
