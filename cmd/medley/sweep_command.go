package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"medley/internal/refresh"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	var fieldNames []string
	var includeUnaired bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one scheduled-style refresh sweep now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := refresh.ParseFields(fieldNames)
			if err != nil {
				return err
			}

			rt, err := ctx.openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			counts := map[string]int{}
			progress := func(stage string, done, total int) {
				counts[stage] = total
				if done == total {
					fmt.Fprintf(out, "%s: %d/%d\n", stage, done, total)
				}
			}

			outcome, err := rt.orch.AutoRefresh(cmd.Context(), rt.sweepOptions(includeUnaired, fields), progress)
			if err != nil {
				return err
			}

			groups := strings.Join(outcome.Groups, ", ")
			if groups == "" {
				groups = "-"
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Movies", "Shows", "Seasons", "Episodes", "Updated", "Groups"},
				[][]string{{
					fmt.Sprint(counts["movies"]),
					fmt.Sprint(counts["shows"]),
					fmt.Sprint(counts["seasons"]),
					fmt.Sprint(counts["episodes"]),
					yesNo(outcome.Updated),
					groups,
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&fieldNames, "fields", nil, "Field groups to apply (default all)")
	cmd.Flags().BoolVar(&includeUnaired, "include-unaired", false, "Admit unaired and virtual items")
	return cmd
}
