package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/go-lynx/asphalt"
	"github.com/go-lynx/asphalt/cmd/asphalt/internal/run"
	"github.com/go-lynx/asphalt/cmd/asphalt/internal/types"
	"github.com/go-lynx/asphalt/factory"
	"github.com/go-lynx/asphalt/log"
)

// release is overridden at build time with -ldflags "-X main.release=..."
var release = "v0.1.0"

// rootCmd is the root command of the asphalt CLI.
var rootCmd = &cobra.Command{
	Use:     "asphalt",
	Short:   "asphalt: build and start component hierarchies from configuration",
	Version: release,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		log.SetLevel(log.ParseLevel(level))
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	asphalt.RegisterBuiltins(factory.Global())

	rootCmd.AddCommand(run.CmdRun)
	rootCmd.AddCommand(types.CmdTypes)
	rootCmd.PersistentFlags().String("log-level", "info", "log level: error|warn|info|debug")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
