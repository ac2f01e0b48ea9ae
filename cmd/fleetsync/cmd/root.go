package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	envFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fleetsync",
	Short: "Keep a live view of the monitored landscape",
	Long: `fleetsync loads hosts, clusters, SAP systems, databases and checks executions from the monitoring server,
then keeps them in sync with the events pushed by the server.`,
	SilenceUsage: true,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "file of environment variables loaded before the config")
}
