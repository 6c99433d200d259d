package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/clinic-registry/internal/config"
	"github.com/jwalitptl/clinic-registry/pkg/logger"
)

var (
	configPath string

	cfg *config.Config
	lg  *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "clinics",
	Short:         "Clinic registry API",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		lg = logger.NewLogger(&logger.Config{
			Level:      logger.ParseLevel(cfg.Log.Level),
			Format:     cfg.Log.Format,
			TimeFormat: time.RFC3339,
			Output:     os.Stdout,
		})
		logger.SetGlobal(lg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a config file (default: ./config.yaml or ./config/config.yaml)")
}
