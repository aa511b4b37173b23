// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	apiAddr    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fastpath",
	Short: "Fastpath - line-rate packet interception and decision engine",
	Long: `Fastpath intercepts packets at a receive-side hook and a transmit-side
hook on a network interface. The receive hook makes a pass/drop/reflect
decision per packet from a longest-prefix-match route table; the
transmit hook fingerprints cacheable HTTP GET requests and checks a
time-bounded response cache.

The route table and response cache are mutated at runtime through the
admin HTTP API while the fast path reads them lock-free.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/fastpath/config.yml",
		"config file path")
	rootCmd.PersistentFlags().StringVarP(&apiAddr, "api", "a", "http://127.0.0.1:8081",
		"admin api base url")
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
