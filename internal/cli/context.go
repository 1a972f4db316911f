package cli

import (
	"fmt"

	"campusbot/internal/knowledge"

	"github.com/spf13/cobra"
)

func (a *app) newContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Print the Q&A context built from the spreadsheet",
		Long:  `Loads the configured spreadsheet exactly as the server would and prints the context sent to the model. Useful for checking a new sheet before deploying it.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}

			base, err := knowledge.Load(cfg.DataFile)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), base.Context())
			fmt.Fprintf(cmd.ErrOrStderr(), "%d entries loaded from %s\n", base.Len(), base.Source())
			return nil
		},
	}
}
