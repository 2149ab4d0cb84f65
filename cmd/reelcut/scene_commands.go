package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelcut/internal/ipc"
)

func newSceneCommand(ctx *commandContext) *cobra.Command {
	sceneCmd := &cobra.Command{
		Use:   "scene",
		Short: "Inspect and manage project scenes",
	}

	sceneCmd.AddCommand(newSceneListCommand(ctx))
	sceneCmd.AddCommand(newSceneShowCommand(ctx))
	sceneCmd.AddCommand(newSceneAddCommand(ctx))
	sceneCmd.AddCommand(newSceneSetCommand(ctx))
	sceneCmd.AddCommand(newSceneRemoveCommand(ctx))
	sceneCmd.AddCommand(newSceneReorderCommand(ctx))
	sceneCmd.AddCommand(newSceneHealthCommand(ctx))

	return sceneCmd
}

func newSceneListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scenes in project order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SceneList()
				if err != nil {
					return err
				}
				if len(resp.Scenes) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Project is empty")
					return nil
				}
				table := renderTable(
					[]string{"#", "ID", "Title", "Kind", "Media", "Duration"},
					buildSceneRows(resp.Scenes),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newSceneShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <scene-id>",
		Short: "Show full details for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SceneDescribe(strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				printSceneDetail(cmd, resp.Scene)
				return nil
			})
		},
	}
}

func newSceneAddCommand(ctx *commandContext) *cobra.Command {
	var req ipc.SceneAddRequest

	cmd := &cobra.Command{
		Use:   "add <media-url>",
		Short: "Append a scene to the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.MediaURL = strings.TrimSpace(args[0])
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SceneAdd(req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added scene %s at position %d\n", resp.Scene.ID, resp.Scene.Position)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&req.Title, "title", "t", "", "Scene title")
	cmd.Flags().StringVarP(&req.MediaKind, "kind", "k", "video", "Media kind (video, image, gallery)")
	cmd.Flags().StringVar(&req.NarrationText, "narration", "", "Narration text for the scene")
	cmd.Flags().StringVar(&req.NarrationVoice, "voice", "", "Narration voice override")
	cmd.Flags().StringVar(&req.NarrationLanguage, "language", "", "Narration language tag (for example en-US)")
	cmd.Flags().Float64Var(&req.TrimStart, "trim-start", 0, "Trim start in seconds")
	cmd.Flags().Float64Var(&req.TrimEnd, "trim-end", 0, "Trim end in seconds (0 keeps the natural end)")
	return cmd
}

func newSceneSetCommand(ctx *commandContext) *cobra.Command {
	var (
		title         string
		mediaURL      string
		mediaKind     string
		narrationText string
		trimStart     float64
		trimEnd       float64
	)

	cmd := &cobra.Command{
		Use:   "set <scene-id>",
		Short: "Update fields of an existing scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ipc.SceneUpdateRequest{ID: strings.TrimSpace(args[0])}
			changed := false
			if cmd.Flags().Changed("title") {
				req.Title = &title
				changed = true
			}
			if cmd.Flags().Changed("media") {
				req.MediaURL = &mediaURL
				changed = true
			}
			if cmd.Flags().Changed("kind") {
				req.MediaKind = &mediaKind
				changed = true
			}
			if cmd.Flags().Changed("narration") {
				req.NarrationText = &narrationText
				changed = true
			}
			if cmd.Flags().Changed("trim-start") {
				req.TrimStart = &trimStart
				changed = true
			}
			if cmd.Flags().Changed("trim-end") {
				req.TrimEnd = &trimEnd
				changed = true
			}
			if !changed {
				return fmt.Errorf("no fields to update; pass at least one flag")
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SceneUpdate(req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated scene %s\n", resp.Scene.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Scene title")
	cmd.Flags().StringVar(&mediaURL, "media", "", "Media URL or path")
	cmd.Flags().StringVarP(&mediaKind, "kind", "k", "", "Media kind (video, image, gallery)")
	cmd.Flags().StringVar(&narrationText, "narration", "", "Narration text for the scene")
	cmd.Flags().Float64Var(&trimStart, "trim-start", 0, "Trim start in seconds")
	cmd.Flags().Float64Var(&trimEnd, "trim-end", 0, "Trim end in seconds (0 keeps the natural end)")
	return cmd
}

func newSceneRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <scene-id>",
		Short: "Remove a scene from the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				id := strings.TrimSpace(args[0])
				if _, err := client.SceneRemove(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed scene %s\n", id)
				return nil
			})
		},
	}
}

func newSceneReorderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <scene-id>...",
		Short: "Rewrite project order; ids must cover every scene",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.SceneReorder(args); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Scenes reordered")
				return nil
			})
		},
	}
}

func newSceneHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show aggregate scene diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SceneHealth()
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Total", strconv.Itoa(resp.Total)},
					{"Videos", strconv.Itoa(resp.Videos)},
					{"Images", strconv.Itoa(resp.Images)},
					{"Galleries", strconv.Itoa(resp.Galleries)},
					{"With narration audio", strconv.Itoa(resp.WithAudio)},
					{"Missing title", strconv.Itoa(resp.WithoutTitle)},
				}
				table := renderTable([]string{"Metric", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func buildSceneRows(scenes []ipc.Scene) [][]string {
	rows := make([][]string, 0, len(scenes))
	for _, sc := range scenes {
		duration := ""
		if sc.Duration > 0 {
			duration = formatSeconds(sc.Duration)
		}
		rows = append(rows, []string{
			strconv.Itoa(sc.Position),
			sc.ID,
			sc.Title,
			sc.MediaKind,
			sc.MediaURL,
			duration,
		})
	}
	return rows
}

func printSceneDetail(cmd *cobra.Command, sc ipc.Scene) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:        %s\n", sc.ID)
	fmt.Fprintf(out, "Position:  %d\n", sc.Position)
	fmt.Fprintf(out, "Title:     %s\n", sc.Title)
	fmt.Fprintf(out, "Media:     %s [%s]\n", sc.MediaURL, sc.MediaKind)
	if sc.Duration > 0 {
		fmt.Fprintf(out, "Duration:  %s\n", formatSeconds(sc.Duration))
	}
	if sc.TrimStart > 0 || sc.TrimEnd > 0 {
		fmt.Fprintf(out, "Trim:      %s .. %s\n", formatSeconds(sc.TrimStart), formatSeconds(sc.TrimEnd))
	}
	if strings.TrimSpace(sc.NarrationText) != "" {
		fmt.Fprintf(out, "Narration: %s\n", sc.NarrationText)
		if sc.NarrationVoice != "" {
			fmt.Fprintf(out, "Voice:     %s\n", sc.NarrationVoice)
		}
		if sc.NarrationLanguage != "" {
			fmt.Fprintf(out, "Language:  %s\n", sc.NarrationLanguage)
		}
		fmt.Fprintf(out, "Audio:     %s\n", valueOr(sc.NarrationAudio, "not generated"))
	}
	fmt.Fprintf(out, "Created:   %s\n", sc.CreatedAt)
	fmt.Fprintf(out, "Updated:   %s\n", sc.UpdatedAt)
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
