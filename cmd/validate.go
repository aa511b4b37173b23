package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"firestige.xyz/fastpath/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long:  "Load, validate, and print the effective configuration with defaults applied.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configFile)
		if err != nil {
			exitWithError("config invalid", err)
		}

		out, err := yaml.Marshal(map[string]*config.Config{"fastpath": cfg})
		if err != nil {
			exitWithError("failed to render config", err)
		}
		fmt.Printf("Config OK: %s\n---\n%s", configFile, out)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
