package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/24K-GA/AI-Course-EvalMate/internal/app"
	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/spf13/cobra"
)

// NewQuestionCmd covers the Q&A round.
func NewQuestionCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "question",
		Short: "Ask, list and score questions",
	}

	ask := &cobra.Command{
		Use:   "ask ASKING_TEAM_ID TARGET_TEAM_ID CONTENT...",
		Short: "Ask the presenting team a question",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, opts, func(c *console) error {
				q, err := c.evals.AskQuestion(cmd.Context(), args[0], args[1], strings.Join(args[2:], " "))
				if err = c.local(err); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "question %s recorded (%d/%d asked)\n",
					q.ID, c.evals.QuestionCount(q.AskingTeamID), app.QuestionTarget)
				return nil
			})
		},
	}

	var target string
	list := &cobra.Command{
		Use:   "list",
		Short: "List questions, optionally for one target team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, opts, func(c *console) error {
				qs := c.evals.Questions()
				if target != "" {
					qs = c.evals.QuestionsFor(target)
				}
				printQuestions(cmd.OutOrStdout(), qs)
				return nil
			})
		},
	}
	list.Flags().StringVar(&target, "target", "", "only questions asked of this team")

	var relevance, depth, inspiration int
	score := &cobra.Command{
		Use:   "score QUESTION_ID",
		Short: "Score a question (max 20)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, opts, func(c *console) error {
				q, err := c.evals.ScoreQuestion(cmd.Context(), args[0], relevance, depth, inspiration)
				if err = c.local(err); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "question %s scored %d/20\n", q.ID, q.TotalScore)
				return nil
			})
		},
	}
	score.Flags().IntVar(&relevance, "relevance", 0, "0-5")
	score.Flags().IntVar(&depth, "depth", 0, "0-10")
	score.Flags().IntVar(&inspiration, "inspiration", 0, "0-5")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show how many questions each team has asked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, opts, func(c *console) error {
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TEAM\tASKED\tDONE")
				for _, s := range c.evals.QuestionStats() {
					fmt.Fprintf(tw, "%s\t%d/%d\t%t\n", s.TeamID, s.QuestionCount, s.TargetCount, s.Completed)
				}
				return tw.Flush()
			})
		},
	}

	cmd.AddCommand(ask, list, score, stats)
	return cmd
}

func printQuestions(out io.Writer, qs []domain.Question) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFROM\tTO\tSCORE\tCONTENT")
	for _, q := range qs {
		score := "-"
		if q.Scored {
			score = fmt.Sprintf("%d", q.TotalScore)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", q.ID, q.AskingTeamName, q.TargetTeamID, score, q.Content)
	}
	tw.Flush()
}
