package main

import (
	"os"

	"github.com/24K-GA/AI-Course-EvalMate/internal/cli"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("evalmate failed")
		os.Exit(1)
	}
}
