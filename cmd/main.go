package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/studychannel/studychannel/internal/config"
)

var envFile string

func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "studychannel",
		Short:         "Study Channel forum server and tools",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file loaded before the process environment")

	rootCmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		hashPasswordCommand(),
		browseCommand(),
	)

	return rootCmd
}

func main() {
	time.Local = time.UTC

	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
