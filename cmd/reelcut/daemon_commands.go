package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelcut/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon, dependency, and project status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return err
				}

				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)

				for _, line := range renderSectionHeader("Daemon", colorize) {
					fmt.Fprintln(stdout, line)
				}
				runKind := statusError
				runDetail := "not running"
				if resp.Running {
					runKind = statusOK
					runDetail = fmt.Sprintf("pid %d", resp.PID)
				}
				fmt.Fprintln(stdout, renderStatusLine("Daemon", runKind, runDetail, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Lock", statusInfo, resp.LockPath, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Scene database", statusInfo, resp.SceneDBPath, colorize))
				fmt.Fprintln(stdout)

				for _, line := range renderSectionHeader("Dependencies", colorize) {
					fmt.Fprintln(stdout, line)
				}
				for _, line := range dependencyLines(resp.Dependencies, colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout)

				for _, line := range renderSectionHeader("Preview Session", colorize) {
					fmt.Fprintln(stdout, line)
				}
				for _, line := range sessionLines(resp.Session, colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout)

				fmt.Fprintln(stdout, renderStatusLine("Scenes", statusInfo, strconv.Itoa(resp.SceneTotal), colorize))
				return nil
			})
		},
	}
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the reelcut daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stop()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if resp.Stopped {
					fmt.Fprintln(stdout, "Daemon stopped")
				} else {
					fmt.Fprintln(stdout, "Stop request sent")
				}
				return nil
			})
		},
	}
}

func dependencyLines(deps []ipc.DependencyStatus, colorize bool) []string {
	lines := make([]string, 0, len(deps)+1)
	missing := make([]string, 0)
	for _, dep := range deps {
		if dep.Available {
			message := "Ready"
			if dep.Command != "" {
				message = fmt.Sprintf("Ready (command: %s)", dep.Command)
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}

		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
		missing = append(missing, dep.Name)
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing", statusWarn, strings.Join(missing, ", "), colorize))
	}
	return lines
}

func sessionLines(session ipc.SessionStatus, colorize bool) []string {
	if !session.Active {
		return []string{renderStatusLine("Session", statusInfo, "no scene open", colorize)}
	}

	title := session.Title
	if strings.TrimSpace(title) == "" {
		title = session.MediaURL
	}
	lines := []string{
		renderStatusLine("Scene", statusOK, fmt.Sprintf("%s (%s)", title, session.SceneID), colorize),
		renderStatusLine("Media", statusInfo, fmt.Sprintf("%s [%s]", session.MediaURL, session.MediaKind), colorize),
		renderStatusLine("Ready", statusInfo, yesNo(session.Ready), colorize),
		renderStatusLine("Position", statusInfo, fmt.Sprintf("%s / %s", formatSeconds(session.CurrentTime), formatSeconds(session.Duration)), colorize),
	}
	if session.TrimStart > 0 || session.TrimEnd > 0 {
		lines = append(lines, renderStatusLine("Trim", statusInfo, fmt.Sprintf("%s .. %s", formatSeconds(session.TrimStart), formatSeconds(session.TrimEnd)), colorize))
	}
	if strings.TrimSpace(session.LastError) != "" {
		lines = append(lines, renderStatusLine("Last error", statusError, session.LastError, colorize))
	}
	return lines
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64) + "s"
}
