package cli

import (
	"fmt"
	"text/tabwriter"

	"campusbot/internal/models"

	"github.com/spf13/cobra"
)

func (a *app) newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List known Gemini models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\tID\tCONTEXT\tDESCRIPTION")
			for _, m := range models.AvailableModels {
				marker := ""
				if m.ID == cfg.Model {
					marker = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", marker, m.ID, models.FormatTokens(m.MaxTokens), m.Description)
			}
			return tw.Flush()
		},
	}
}
