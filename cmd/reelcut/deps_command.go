package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelcut/internal/ipc"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Show external dependency availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(resp.Dependencies))
				for _, dep := range resp.Dependencies {
					detail := dep.Detail
					if dep.Available && detail == "" {
						detail = dep.Command
					}
					rows = append(rows, []string{
						dep.Name,
						yesNo(dep.Available),
						yesNo(dep.Optional),
						detail,
					})
				}
				table := renderTable(
					[]string{"Dependency", "Available", "Optional", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}
