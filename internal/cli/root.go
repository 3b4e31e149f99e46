package cli

import (
	"os"

	"github.com/24K-GA/AI-Course-EvalMate/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	port       string
	apiURL     string
	logLevel   string
	cfg        config.Config
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	opts := &options{}
	cmd := &cobra.Command{
		Use:           "evalmate",
		Short:         "Classroom presentation scoring: persistence API and operator console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&opts.port, "port", "", "port to listen on (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", "", "persistence API base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	cmd.AddCommand(
		NewServeCmd(opts),
		NewMigrateCmd(opts),
		NewSeedCmd(opts),
		NewResetCmd(opts),
		NewTeamCmd(opts),
		NewScoreCmd(opts),
		NewPeerCmd(opts),
		NewQuestionCmd(opts),
		NewSessionCmd(opts),
		NewRushCmd(opts),
		NewReportCmd(opts),
		NewWatchCmd(opts),
	)
	return cmd
}

func (o *options) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.port != "" {
		cfg.Server.Port = o.port
	}
	if o.apiURL != "" {
		cfg.Client.APIURL = o.apiURL
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	o.cfg = cfg
	setupLogging(cfg.Log.Level)
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
