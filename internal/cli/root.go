// Package cli wires configuration, logging and the front ends into the
// campusbot command.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"campusbot/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

type app struct {
	v       *viper.Viper
	cfgFile string
}

// NewRootCommand builds the campusbot command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:           "campusbot",
		Short:         "Kepler College Q&A assistant",
		Long:          `CampusBot answers questions about Kepler College using a Q&A spreadsheet and a hosted Gemini model.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.ReadFile(a.v, a.cfgFile)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "optional config file (yaml, json or toml)")
	flags.String("model", a.v.GetString(config.KeyModel), "Gemini model ID")
	flags.String("log-level", a.v.GetString(config.KeyLogLevel), "log level (debug, info, warn, error)")
	flags.Duration("timeout", a.v.GetDuration(config.KeyTimeout), "per-request generation timeout, 0 for none")
	flags.String("data", a.v.GetString(config.KeyDataFile), "Q&A spreadsheet (.xlsx or .csv)")

	// Flags override env, file and defaults
	_ = a.v.BindPFlag(config.KeyModel, flags.Lookup("model"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyTimeout, flags.Lookup("timeout"))
	_ = a.v.BindPFlag(config.KeyDataFile, flags.Lookup("data"))

	rootCmd.AddCommand(a.newServeCommand())
	rootCmd.AddCommand(a.newChatCommand())
	rootCmd.AddCommand(a.newContextCommand())
	rootCmd.AddCommand(a.newModelsCommand())

	return rootCmd
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) load() (*config.Config, error) {
	return config.Load(a.v)
}
