package cli

import (
	"fmt"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/spf13/cobra"
)

// NewScoreCmd records the teacher's rubric for a team.
func NewScoreCmd(opts *options) *cobra.Command {
	var score domain.TeacherScore
	cmd := &cobra.Command{
		Use:   "score TEAM_ID",
		Short: "Record the teacher score for a team (max 50)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, opts, func(c *console) error {
				score.TeamID = args[0]
				saved, err := c.evals.SubmitTeacherScore(cmd.Context(), score)
				if err = c.local(err); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "teacher score for %s: %d/50\n", saved.TeamID, saved.Total)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&score.Completeness, "completeness", 0, "0-10")
	cmd.Flags().IntVar(&score.Quality, "quality", 0, "0-20")
	cmd.Flags().IntVar(&score.Presentation, "presentation", 0, "0-10")
	cmd.Flags().IntVar(&score.Defense, "defense", 0, "0-10")
	return cmd
}

// NewPeerCmd records one team's rating of another.
func NewPeerCmd(opts *options) *cobra.Command {
	var score domain.PeerScore
	cmd := &cobra.Command{
		Use:   "peer FROM_TEAM_ID TO_TEAM_ID",
		Short: "Record a peer score (each dimension 6-10)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, opts, func(c *console) error {
				score.FromTeamID, score.ToTeamID = args[0], args[1]
				if c.evals.HasPeerScored(score.FromTeamID, score.ToTeamID) {
					fmt.Fprintln(cmd.OutOrStdout(), "replacing earlier rating")
				}
				saved, err := c.evals.SubmitPeerScore(cmd.Context(), score)
				if err = c.local(err); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "peer score %s -> %s: %d/30\n", saved.FromTeamID, saved.ToTeamID, saved.Total)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&score.Content, "content", domain.PeerScoreMax, "6-10")
	cmd.Flags().IntVar(&score.Collaboration, "collaboration", domain.PeerScoreMax, "6-10")
	cmd.Flags().IntVar(&score.Interaction, "interaction", domain.PeerScoreMax, "6-10")
	return cmd
}
