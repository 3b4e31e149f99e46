package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/24K-GA/AI-Course-EvalMate/internal/app"
	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/spf13/cobra"
)

type sessionAction func(ctx context.Context, s *app.SessionController, args []string) (domain.SessionStatus, error)

// sessionCmd runs action against the session controller and prints the result.
func sessionCmd(opts *options, use, short string, args cobra.PositionalArgs, action sessionAction) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, argv []string) error {
			return withConsole(cmd, opts, func(c *console) error {
				s, err := action(cmd.Context(), c.sessions, argv)
				if err = c.local(err); err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), c, s)
				return nil
			})
		},
	}
}

// NewSessionCmd drives the presentation: active team, countdown and phase.
func NewSessionCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Control the presenting team, timer and phase",
	}
	cmd.AddCommand(
		sessionCmd(opts, "show", "Print the session", cobra.NoArgs,
			func(ctx context.Context, s *app.SessionController, _ []string) (domain.SessionStatus, error) {
				return s.Session(), nil
			}),
		sessionCmd(opts, "switch TEAM_ID", "Make a team the presenter", cobra.ExactArgs(1),
			func(ctx context.Context, s *app.SessionController, args []string) (domain.SessionStatus, error) {
				return s.SwitchTeam(ctx, args[0])
			}),
		sessionCmd(opts, "next", "Move to the next team", cobra.NoArgs,
			func(ctx context.Context, s *app.SessionController, _ []string) (domain.SessionStatus, error) {
				return s.NextTeam(ctx)
			}),
		sessionCmd(opts, "prev", "Move to the previous team", cobra.NoArgs,
			func(ctx context.Context, s *app.SessionController, _ []string) (domain.SessionStatus, error) {
				return s.PrevTeam(ctx)
			}),
		sessionCmd(opts, "phase PHASE", "Set the phase: setup, presenting, scoring or finished", cobra.ExactArgs(1),
			func(ctx context.Context, s *app.SessionController, args []string) (domain.SessionStatus, error) {
				return s.SetPhase(ctx, domain.Phase(args[0]))
			}),
		newTimerCmd(opts),
	)
	return cmd
}

func newTimerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Start, pause, toggle or reset the countdown",
	}
	cmd.AddCommand(
		sessionCmd(opts, "start", "Start the countdown", cobra.NoArgs,
			func(ctx context.Context, s *app.SessionController, _ []string) (domain.SessionStatus, error) {
				return s.StartTimer(ctx)
			}),
		sessionCmd(opts, "pause", "Pause the countdown", cobra.NoArgs,
			func(ctx context.Context, s *app.SessionController, _ []string) (domain.SessionStatus, error) {
				return s.PauseTimer(ctx)
			}),
		sessionCmd(opts, "toggle", "Start or pause the countdown", cobra.NoArgs,
			func(ctx context.Context, s *app.SessionController, _ []string) (domain.SessionStatus, error) {
				return s.ToggleTimer(ctx)
			}),
		sessionCmd(opts, "reset", "Restore the full countdown", cobra.NoArgs,
			func(ctx context.Context, s *app.SessionController, _ []string) (domain.SessionStatus, error) {
				return s.ResetTimer(ctx)
			}),
	)
	return cmd
}

// NewRushCmd controls the buzzer round.
func NewRushCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rush",
		Short: "Run the rush-to-answer buzzer",
	}
	try := &cobra.Command{
		Use:   "try TEAM_ID",
		Short: "Buzz in for a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, opts, func(c *console) error {
				won, err := c.sessions.TryRush(cmd.Context(), args[0])
				if err = c.local(err); err != nil {
					return err
				}
				if won {
					fmt.Fprintln(cmd.OutOrStdout(), "you got it!")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "too late")
				return nil
			})
		},
	}
	cmd.AddCommand(
		sessionCmd(opts, "start", "Open the buzzer", cobra.NoArgs,
			func(ctx context.Context, s *app.SessionController, _ []string) (domain.SessionStatus, error) {
				return s.StartRush(ctx)
			}),
		sessionCmd(opts, "stop", "Close the buzzer", cobra.NoArgs,
			func(ctx context.Context, s *app.SessionController, _ []string) (domain.SessionStatus, error) {
				return s.StopRush(ctx)
			}),
		sessionCmd(opts, "clear", "Forget the winner", cobra.NoArgs,
			func(ctx context.Context, s *app.SessionController, _ []string) (domain.SessionStatus, error) {
				return s.ClearRushWinner(ctx)
			}),
		try,
	)
	return cmd
}

func printSession(out io.Writer, c *console, s domain.SessionStatus) {
	active := "none"
	if team, ok := c.evals.Team(s.ActiveTeam()); ok {
		active = fmt.Sprintf("group %d %s", team.GroupNumber, team.Name)
	}
	state := "paused"
	if s.TimerRunning {
		state = "running"
	}
	fmt.Fprintf(out, "phase:  %s\n", s.Phase)
	fmt.Fprintf(out, "team:   %s\n", active)
	fmt.Fprintf(out, "timer:  %02d:%02d (%s)\n", s.TimeLeft/60, s.TimeLeft%60, state)
	switch {
	case s.RushWinner != nil:
		fmt.Fprintf(out, "rush:   won by group %d %s\n", s.RushWinner.GroupNumber, s.RushWinner.TeamName)
	case s.RushEnabled:
		fmt.Fprintln(out, "rush:   open")
	default:
		fmt.Fprintln(out, "rush:   closed")
	}
}
