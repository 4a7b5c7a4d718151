package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trailquiz/internal/config"
	"trailquiz/internal/quiz"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search known taxa by scientific or common name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd.Context(), func(engine *quiz.Engine, cfg *config.Config) error {
				results := engine.Search(args[0], limit)
				out := cmd.OutOrStdout()
				if len(results) == 0 {
					fmt.Fprintln(out, "No matches.")
					return nil
				}
				headers := []string{"Name", "Rank", "Common name"}
				rows := make([][]string, 0, len(results))
				for _, res := range results {
					rows = append(rows, []string{res.DisplayName, string(res.Rank), res.CommonName})
				}
				if isTerminal(out) {
					fmt.Fprintln(out, renderTable(headers, rows, nil))
				} else {
					fmt.Fprint(out, renderPlain(headers, rows))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of matches")
	return cmd
}
