package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/24K-GA/AI-Course-EvalMate/internal/app"
	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/spf13/cobra"
)

// NewReportCmd prints or exports the ranking.
func NewReportCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the ranking as a table, CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, opts, func(c *console) error {
				return writeReport(cmd.OutOrStdout(), format, c.evals.Rankings())
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "table, csv or json")
	return cmd
}

func writeReport(out io.Writer, format string, rankings []domain.TeamFinalScore) error {
	rows := app.Report(rankings)
	switch format {
	case "table", "":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "RANK\tGROUP\tTEAM\tTEACHER\tPEER\tQ&A\tTOTAL\t")
		for _, r := range rows {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t\n",
				r.Rank, r.GroupNumber, r.TeamName, r.TeacherScore, r.PeerScoreAvg, r.QuestionScore, r.TotalScore)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "scored: %d/%d teams\n", app.Progress(rankings), len(rankings))
		return nil
	case "csv":
		w := csv.NewWriter(out)
		_ = w.Write([]string{"rank", "group", "team", "teacher", "peer", "questions", "total"})
		for _, r := range rows {
			_ = w.Write([]string{
				strconv.Itoa(r.Rank),
				strconv.Itoa(r.GroupNumber),
				r.TeamName,
				formatScore(r.TeacherScore),
				formatScore(r.PeerScoreAvg),
				formatScore(r.QuestionScore),
				formatScore(r.TotalScore),
			})
		}
		w.Flush()
		return w.Error()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
