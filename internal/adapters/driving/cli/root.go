// Package cli wires the pipeline's cobra command surface: the dispatch
// and backup mode drivers, the watch-mode intake loop, and version.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/rn-medical/complaints-pipeline/internal/adapters/driven/config/file"
	"github.com/rn-medical/complaints-pipeline/internal/logger"
)

// version is set by Execute.
var version = "dev"

var (
	cfgPath     string
	verboseMode bool
)

var rootCmd = &cobra.Command{
	Use:   "complaints",
	Short: "Customer complaint submission pipeline",
	Long: `Moves customer complaint records from form submissions through
normalisation, durable export (PDF/CSV), and delivery to the document
store.

Two independent execution modes exist: per-submission dispatch and
scheduled backup. Each invocation processes one submission or one full
worksheet snapshot, writes its artifacts, and exits.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseMode)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"config file path (default ~/.complaints/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false,
		"enable verbose logging")
}

// Execute runs the root command.
func Execute(v string) error {
	version = v
	return rootCmd.Execute()
}

// loadConfig reads the pipeline configuration from --config or the
// default location.
func loadConfig() (*file.Config, error) {
	path := cfgPath
	if path == "" {
		var err error
		path, err = file.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return file.Load(path)
}
