package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"trailquiz/internal/config"
	"trailquiz/internal/quiz"
)

func newTopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "top",
		Short: "Show the high-score table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd.Context(), func(engine *quiz.Engine, cfg *config.Config) error {
				entries, err := engine.TopScores(cmd.Context(), 10)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No high scores yet.")
					return nil
				}
				headers := []string{"#", "Player", "Score", "Date"}
				rows := make([][]string, 0, len(entries))
				for i, entry := range entries {
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						entry.PlayerName,
						strconv.Itoa(entry.Score),
						entry.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				if isTerminal(out) {
					fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignRight, alignLeft}))
				} else {
					fmt.Fprint(out, renderPlain(headers, rows))
				}
				return nil
			})
		},
	}
}
