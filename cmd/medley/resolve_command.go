package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <file-id>",
		Short: "Show the episode bindings resolved for one local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			resolved, err := rt.service.ResolveFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(resolved) == 0 {
				fmt.Fprintf(out, "file %s has no episode bindings\n", args[0])
				return nil
			}

			rows := make([][]string, 0, len(resolved))
			for _, r := range resolved {
				group := "-"
				if r.Ref.Percent.Group > 0 {
					if r.Ref.Percent.GroupCount != nil {
						group = fmt.Sprintf("%d/%d", r.Ref.Percent.Group, *r.Ref.Percent.GroupCount)
					} else {
						group = fmt.Sprint(r.Ref.Percent.Group)
					}
				}
				span := "full"
				if !r.Ref.Percent.Complete() {
					span = fmt.Sprintf("%.1f%%-%.1f%%", r.Ref.Percent.Start, r.Ref.Percent.End)
				}
				rows = append(rows, []string{
					r.ID,
					r.Ref.NativeEpisodeID,
					r.Ref.ParentEpisodeID,
					span,
					group,
					r.Ref.Hash,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Entity", "Native Episode", "Parent Episode", "Span", "Part", "Hash"},
				rows,
				nil,
			))
			return nil
		},
	}
}
