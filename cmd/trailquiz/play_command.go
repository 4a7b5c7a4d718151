package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"trailquiz/internal/config"
	"trailquiz/internal/quiz"
)

func newPlayCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a quiz session in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd.Context(), func(engine *quiz.Engine, cfg *config.Config) error {
				return runPlayLoop(cmd, engine)
			})
		},
	}
}

func runPlayLoop(cmd *cobra.Command, engine *quiz.Engine) error {
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	sessionID, err := engine.StartSession(cmd.Context())
	if err != nil {
		return err
	}

	for {
		question, err := engine.CurrentQuestion(cmd.Context(), sessionID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nQuestion %d of %d\n", question.Index+1, question.Total)
		for _, seq := range question.Sequences {
			fmt.Fprintf(out, "  Sequence %d:\n", seq.SequenceID)
			for _, img := range seq.Images {
				fmt.Fprintf(out, "    frame %d: %s\n", img.FrameIndex, img.URL)
			}
		}

		fmt.Fprint(out, "Your guess (or ? for a hint, enter to skip): ")
		guess, err := readLine(reader)
		if err != nil {
			return err
		}
		if guess == "?" {
			if hint, ok := engine.Hint(cmd.Context(), sessionID); ok {
				fmt.Fprintf(out, "Hint: %s\n", hint)
			} else {
				fmt.Fprintln(out, "No hint available.")
			}
			fmt.Fprint(out, "Your guess (enter to skip): ")
			if guess, err = readLine(reader); err != nil {
				return err
			}
		}

		var last bool
		if guess == "" {
			fmt.Fprintln(out, "Skipped.")
			last = question.Index == question.Total-1
		} else {
			outcome, err := engine.SubmitGuess(cmd.Context(), sessionID, guess)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "It was %s", outcome.TargetName)
			if outcome.TargetContext != "" {
				fmt.Fprintf(out, " (%s)", outcome.TargetContext)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%d points (%s). Running score: %d\n",
				outcome.Points, outcome.Explanation, outcome.CumulativeScore)
			if outcome.FunFact != "" {
				fmt.Fprintf(out, "Fun fact: %s\n", outcome.FunFact)
			}
			last = outcome.IsLastQuestion
		}

		if err := engine.Advance(sessionID); err != nil {
			return err
		}
		if last {
			break
		}
	}

	report, err := engine.FinalScore(sessionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nFinal score: %d of %d\n", report.Total, report.MaxPossible)

	fmt.Fprint(out, "Enter your name for the leaderboard (blank to skip): ")
	name, err := readLine(reader)
	if err != nil {
		return err
	}
	if name != "" {
		accepted, rank, err := engine.OfferHighScore(cmd.Context(), name, report.Total)
		if err != nil {
			return err
		}
		if accepted {
			fmt.Fprintf(out, "High score! You placed #%d.\n", rank)
		} else {
			fmt.Fprintln(out, "Not enough for the top ten this time.")
		}
	}
	return nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
