package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"medley/internal/refresh"
)

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	var fieldNames []string
	var recursive bool

	cmd := &cobra.Command{
		Use:   "refresh <item-id>",
		Short: "Refresh metadata for one library item",
		Args:  cobra.ExactArgs(1),
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

			item, err := rt.store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("item %s not found", args[0])
			}

			outcome, err := rt.orch.Refresh(cmd.Context(), item, refresh.Options{
				Fields:    fields,
				Recursive: recursive,
			})
			if err != nil {
				return err
			}

			groups := strings.Join(outcome.Groups, ", ")
			if groups == "" {
				groups = "-"
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Item", "Kind", "Updated", "Groups"},
				[][]string{{item.ID, string(item.Kind), yesNo(outcome.Updated), groups}},
				nil,
			))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&fieldNames, "fields", nil, "Field groups to apply (default all)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Cascade into child items")
	return cmd
}
