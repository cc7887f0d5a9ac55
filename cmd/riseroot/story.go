package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Awasthi-Ram/Root-fix-app/internal/providers/story"
)

func newStoryCmd(e *env) *cobra.Command {
	var topic, points string
	cmd := &cobra.Command{
		Use:   "story",
		Short: "Generate a success story with the configured text generator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(topic) == "" {
				return fmt.Errorf("--topic is required")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			guard := story.NewGuard(newGenerator(ctx, e.cfg, e.logger), e.cfg.GenerationTimeout)
			text, _, err := guard.Story(ctx, "cli", topic, points)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "post title to write about")
	cmd.Flags().StringVar(&points, "points", "", "key details to include")
	return cmd
}
