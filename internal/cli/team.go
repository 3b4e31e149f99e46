package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/spf13/cobra"
)

// NewTeamCmd groups roster management.
func NewTeamCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams and their members",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List teams in group order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withConsole(cmd, opts, func(c *console) error {
					printTeams(cmd.OutOrStdout(), c.evals.Teams())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "add NAME",
			Short: "Append a team",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withConsole(cmd, opts, func(c *console) error {
					team, err := c.evals.AddTeam(cmd.Context(), args[0])
					if err = c.local(err); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "added group %d %s (%s)\n", team.GroupNumber, team.Name, team.ID)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "rename TEAM_ID NAME",
			Short: "Rename a team",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withConsole(cmd, opts, func(c *console) error {
					team, ok := c.evals.Team(args[0])
					if !ok {
						return domain.ErrTeamNotFound
					}
					if args[1] == "" {
						return domain.ErrEmptyName
					}
					team.Name = args[1]
					return c.local(c.evals.UpdateTeam(cmd.Context(), team))
				})
			},
		},
		&cobra.Command{
			Use:   "rm TEAM_ID",
			Short: "Delete a team; later groups are renumbered",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withConsole(cmd, opts, func(c *console) error {
					return c.local(c.evals.DeleteTeam(cmd.Context(), args[0]))
				})
			},
		},
		newMemberCmd(opts),
	)
	return cmd
}

func newMemberCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Add or remove team members",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add TEAM_ID NAME",
			Short: "Add a member to a team",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withConsole(cmd, opts, func(c *console) error {
					m, err := c.evals.AddMember(cmd.Context(), args[0], args[1])
					if err = c.local(err); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", m.Name, m.ID)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "rm TEAM_ID MEMBER_ID",
			Short: "Remove a member from a team",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withConsole(cmd, opts, func(c *console) error {
					return c.local(c.evals.RemoveMember(cmd.Context(), args[0], args[1]))
				})
			},
		},
	)
	return cmd
}

func printTeams(out io.Writer, teams []domain.Team) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tID\tNAME\tMEMBERS")
	for _, t := range teams {
		fmt.Fprintf(tw, "%d\t%s\t%s %s\t%d\n", t.GroupNumber, t.ID, t.Avatar, t.Name, len(t.Members))
	}
	tw.Flush()
}
