package cli

import (
	"context"
	"fmt"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewSeedCmd stores the demo roster when no team exists yet.
func NewSeedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo teams if the roster is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, opts, func(c *console) error {
				seeded, err := c.evals.Seed(cmd.Context(), demoTeams())
				if err = c.local(err); err != nil {
					return err
				}
				if !seeded {
					fmt.Fprintln(cmd.OutOrStdout(), "teams already present, nothing seeded")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d teams\n", len(demoTeams()))
				return nil
			})
		},
	}
}

// NewResetCmd wipes every collection, optionally restoring the demo roster.
func NewResetCmd(opts *options) *cobra.Command {
	var withDemo bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all teams, scores, questions and session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, opts, func(c *console) error {
				return resetAll(cmd.Context(), c, withDemo)
			})
		},
	}
	cmd.Flags().BoolVar(&withDemo, "seed", false, "restore the demo teams after clearing")
	return cmd
}

func resetAll(ctx context.Context, c *console, withDemo bool) error {
	if err := c.evals.Reset(ctx); err != nil {
		return err
	}
	log.Info().Msg("all data cleared")
	if !withDemo {
		return nil
	}
	return c.local(c.evals.SaveTeams(ctx, demoTeams()))
}

// demoTeams is the roster used for rehearsals.
func demoTeams() []domain.Team {
	team := func(id, name, avatar string, members ...string) domain.Team {
		t := domain.Team{ID: id, Name: name, Avatar: avatar, Members: []domain.Member{}}
		for i, m := range members {
			t.Members = append(t.Members, domain.Member{ID: fmt.Sprintf("%s_m%d", id, i+1), Name: m})
		}
		return t
	}
	return []domain.Team{
		team("team_01", "智慧交通大脑", "🚗", "张三", "李四", "王五"),
		team("team_02", "警务大模型助手", "👮", "赵六", "钱七"),
		team("team_03", "社区安防巡逻", "🏘️", "孙八", "周九", "吴十"),
		team("team_04", "反诈语音机器人", "📞", "周杰", "昆凌"),
		team("team_05", "校园智能导览", "🏫", "Alice", "Bob"),
	}
}
