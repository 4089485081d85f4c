package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/langalarm/internal/service"
)

const quitCommand = ":q"

type practiceQuiz interface {
	StartPractice(ctx context.Context, target, maxWrong int) (service.QuizSnapshot, error)
	Answer(ctx context.Context, text string) (*service.AnswerResult, service.QuizSnapshot, error)
	Exit() (service.QuizSnapshot, error)
}

func practiceCmd() *cobra.Command {
	var (
		target int
		open   bool
		trials int
	)

	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Practice the active deck in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer cleanup()

			if trials == 0 {
				settings, err := a.Settings.Get(cmd.Context())
				if err != nil {
					return err
				}
				trials = settings.MaxTrials
			}
			if open {
				target = service.NoTarget
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			done := make(chan error, 1)
			go func() { done <- a.Weights.Run(ctx) }()
			defer func() {
				cancel()
				<-done
			}()

			return runPractice(ctx, a.Quiz, cmd.InOrStdin(), cmd.OutOrStdout(), target, trials)
		},
	}

	cmd.Flags().IntVarP(&target, "target", "n", service.DefaultPracticeTarget, "correct answers needed to finish")
	cmd.Flags().BoolVar(&open, "open", false, "practice until "+quitCommand+" is entered")
	cmd.Flags().IntVar(&trials, "trials", 0, "wrong answers before a word is skipped (default from settings)")
	return cmd
}

// runPractice asks questions read from in until the session completes, the
// user quits, or in is exhausted.
func runPractice(ctx context.Context, quiz practiceQuiz, in io.Reader, out io.Writer, target, trials int) error {
	session, err := quiz.StartPractice(ctx, target, trials)
	if err != nil {
		return err
	}

	if session.Policy.IsOpenEnded() {
		fmt.Fprintf(out, "Open practice. Enter %s to stop.\n", quitCommand)
	} else {
		fmt.Fprintf(out, "Practice: %d correct answers to finish. Enter %s to stop.\n", target, quitCommand)
	}

	scanner := bufio.NewScanner(in)
	question := session.Question
	for {
		fmt.Fprintf(out, "\n%s: ", question.Question)
		if !scanner.Scan() || strings.TrimSpace(scanner.Text()) == quitCommand {
			break
		}
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		res, _, err := quiz.Answer(ctx, text)
		if err != nil {
			return err
		}
		printAnswer(out, text, res, session.Policy)

		if res.Completed {
			fmt.Fprintf(out, "\nDone with %d correct answers.\n", res.Correct)
			return nil
		}
		question = res.Next
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	session, err = quiz.Exit()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nStopped with %d correct answers.\n", session.Correct)
	return nil
}

func printAnswer(out io.Writer, text string, res *service.AnswerResult, policy service.QuizPolicy) {
	switch res.Outcome {
	case service.OutcomeCorrect:
		if policy.IsOpenEnded() {
			fmt.Fprintf(out, "correct, score %d\n", res.Correct)
		} else {
			fmt.Fprintf(out, "correct, %d/%d\n", res.Correct, policy.Target)
		}
	case service.OutcomeWrong:
		hint := ""
		if service.IsCloseAnswer(text, res.Word.Answer) {
			hint = " (close, check the spelling)"
		}
		fmt.Fprintf(out, "wrong%s, %d tries left\n", hint, res.AttemptsLeft)
	case service.OutcomeSkipped:
		fmt.Fprintf(out, "skipped, the answer was %q\n", res.Word.Answer)
	}
}
