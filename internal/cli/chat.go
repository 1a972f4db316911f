package cli

import (
	"campusbot/internal/config"
	"campusbot/internal/logging"
	"campusbot/internal/session"
	"campusbot/internal/tui"

	"github.com/spf13/cobra"
)

func (a *app) newChatCommand() *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with CampusBot in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			// Log to a file so the alt screen stays clean.
			logger, logFile, err := logging.NewFile(cfg.LogFile, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logFile.Close()

			ctx := cmd.Context()
			store, closer, err := openKnowledge(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closer.Close()

			ex, err := newExchange(ctx, cfg, store, logger)
			if err != nil {
				return err
			}

			prefs := config.LoadPreferences(config.PreferencesDir())
			if cmd.Flags().Changed("style") {
				prefs.Style = style
				if err := prefs.Save(config.PreferencesDir()); err != nil {
					logger.Warn("failed to save preferences", "err", err)
				}
			}

			sess := session.NewStore().Create()
			logger.Info("terminal chat started", "session", sess.ID, "model", cfg.Model)
			return tui.Start(ctx, ex, store, sess, tui.Options{ModelName: cfg.Model, Style: prefs.Style})
		},
	}

	cmd.Flags().StringVar(&style, "style", "dark", "markdown style (dark, light, notty), remembered for later runs")
	return cmd
}
