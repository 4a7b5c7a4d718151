package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"trailquiz/internal/config"
	"trailquiz/internal/quiz"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <csv>",
		Short: "Ingest a camera-trap CSV export into the local database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd.Context(), func(engine *quiz.Engine, cfg *config.Config) error {
				report, err := engine.Ingest(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				headers := []string{"Metric", "Count"}
				rows := [][]string{
					{"Taxa", strconv.FormatInt(report.Taxa, 10)},
					{"Sequences", strconv.FormatInt(report.Sequences, 10)},
					{"Images", strconv.FormatInt(report.Images, 10)},
					{"Rows accepted", strconv.FormatInt(report.Accepted, 10)},
					{"Rows skipped", strconv.FormatInt(report.Skipped, 10)},
					{"Rows malformed", strconv.FormatInt(report.Malformed, 10)},
				}
				out := cmd.OutOrStdout()
				if isTerminal(out) {
					fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignRight}))
				} else {
					fmt.Fprint(out, renderPlain(headers, rows))
				}
				return nil
			})
		},
	}
}
