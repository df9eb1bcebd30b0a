// Package main implements the entry point for the farmer, the
// long-running pipeline that walks voice campaigns for every loaded
// account: authenticate, synthesize scripted audio, upload through the
// presigned flow, confirm, repeat on a daily cycle.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	tokenFile  string
	proxyFile  string
	logLevel   string
	oneShot    bool
)

var rootCmd = &cobra.Command{
	Use:   "farmer",
	Short: "Automated voice-campaign upload pipeline",
	Long: `farmer processes every bearer token in the credential file once per
cycle: it authenticates the account, discovers eligible scripted audio
campaigns, synthesizes spoken audio for each assigned script, uploads it
through the presigned-URL flow, and confirms the upload, with quota
tracking and scheduled cooldowns throughout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := initializeApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		return app.Run(cmd.Context(), oneShot)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to config file (default farmer.yaml in working directory)")
	rootCmd.Flags().StringVar(&tokenFile, "tokens", "", "Path to newline-delimited bearer token file (overrides config)")
	rootCmd.Flags().StringVar(&proxyFile, "proxies", "", "Path to newline-delimited proxy URI file (overrides config)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.Flags().BoolVar(&oneShot, "once", false, "Run a single cycle and exit instead of scheduling forever")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
