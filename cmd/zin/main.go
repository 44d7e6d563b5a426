package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "zin",
	Short: "Run and inspect Zin programs",
	Long:  "zin runs programs written in the Zin scripting language, caching their parsed trees next to the source.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		setLogLevel(logLevel)
	},
}

func setLogLevel(name string) {
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level '%s', using 'info'\n", name)
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Set log level (trace, debug, info, warn, error)")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
