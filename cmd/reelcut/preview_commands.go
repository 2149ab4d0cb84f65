package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelcut/internal/ipc"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Control the preview playback session",
	}

	previewCmd.AddCommand(newPreviewOpenCommand(ctx))
	previewCmd.AddCommand(newPreviewCloseCommand(ctx))
	previewCmd.AddCommand(newPreviewPlayCommand(ctx))
	previewCmd.AddCommand(newPreviewPauseCommand(ctx))
	previewCmd.AddCommand(newPreviewSeekCommand(ctx))
	previewCmd.AddCommand(newPreviewStatusCommand(ctx))

	return previewCmd
}

func newPreviewOpenCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "open <scene-id>",
		Short: "Open a scene in the preview session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				id := strings.TrimSpace(args[0])
				if _, err := client.PreviewOpen(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Opened scene %s\n", id)
				return nil
			})
		},
	}
}

func newPreviewCloseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Close the active preview session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.PreviewClose(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Preview closed")
				return nil
			})
		},
	}
}

func newPreviewPlayCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Resume playback",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.PreviewPlay(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Playing")
				return nil
			})
		},
	}
}

func newPreviewPauseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause playback",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.PreviewPause(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Paused")
				return nil
			})
		},
	}
}

func newPreviewSeekCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seek <seconds>",
		Short: "Seek to a position in seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
			if err != nil {
				return fmt.Errorf("parse seek position %q: %w", args[0], err)
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.PreviewSeek(seconds); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeked to %s\n", formatSeconds(seconds))
				return nil
			})
		},
	}
}

func newPreviewStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active session snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PreviewState()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)
				for _, line := range sessionLines(resp.Session, colorize) {
					fmt.Fprintln(stdout, line)
				}
				return nil
			})
		},
	}
}
