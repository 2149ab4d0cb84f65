package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelcut/internal/ipc"
)

func newNarrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "narrate <scene-id>",
		Short: "Synthesize narration audio for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.NarrationGenerate(strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Narration audio written to %s\n", resp.AudioPath)
				return nil
			})
		},
	}
}
