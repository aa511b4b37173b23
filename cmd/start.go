package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"firestige.xyz/fastpath/internal/boot"
	"firestige.xyz/fastpath/internal/config"
)

var shutdownTimeout time.Duration

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the packet decision engine",
	Long: `
Start the fastpath engine on the configured interface.

Examples:
  fastpath start                       # Start with the default config path
  fastpath start -c config.yml         # Start with config.yml
  fastpath start -c config.yml -t 30s  # Custom shutdown timeout
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configFile)
		if err != nil {
			exitWithError("failed to load config", err)
		}
		if err := boot.Start(cfg, shutdownTimeout); err != nil {
			exitWithError("engine failed", err)
		}
	},
}

func init() {
	startCmd.Flags().DurationVarP(&shutdownTimeout, "timeout", "t", 5*time.Second,
		"graceful shutdown timeout")
	rootCmd.AddCommand(startCmd)
}
