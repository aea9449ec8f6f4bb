package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sudo-init-do/bazaar/internal/config"
	"github.com/sudo-init-do/bazaar/internal/logx"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Operate the marketplace catalog",
	Long: `catalogctl runs the catalog filter pipeline offline, loads the seed
catalogs into Postgres and issues admin tokens for the operator API.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		env := config.ParseEnvironment(os.Getenv("APP_ENV"))
		if verbose {
			env = config.Development
		}
		logx.Init(logx.LoggerOpts{Environment: env, Output: cmd.ErrOrStderr()})
	},
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Human readable debug logging")
	rootCmd.AddCommand(queryCmd, seedDBCmd, mintTokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
