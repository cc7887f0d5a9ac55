package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Awasthi-Ram/Root-fix-app/internal/infra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is populated by the root command before any subcommand runs.
type env struct {
	cfg    *infra.Config
	logger infra.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:   "riseroot",
		Short: "RiseRoot donation and impact service",
		Long: `RiseRoot tracks donations to community funds and shows where the money went.

Run "riseroot serve" to start the HTTP API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional
			_ = godotenv.Load()
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = infra.NewLogger(cfg.AppEnv)
			return nil
		},
	}
	root.AddCommand(
		newServeCmd(e),
		newLeaderboardCmd(e),
		newStoryCmd(e),
	)
	return root
}
