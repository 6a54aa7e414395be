package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ukaji3/fichas-go/pkg/fichas/dashboard"
	"github.com/ukaji3/fichas-go/pkg/fichas/models"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		all   bool
		query string
	)

	cmd := &cobra.Command{
		Use:   "generate [index...]",
		Short: "Send fichas for printing",
		Long: `Loads today's fichas, selects the given row indices (or every row
matching --query with --all) and sends them to the process operation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return errors.New("no fichas selected: pass row indices or --all")
			}
			indices := make([]int, 0, len(args))
			for _, arg := range args {
				idx, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid index %q: must be an integer", arg)
				}
				indices = append(indices, idx)
			}

			ctrl, j, err := a.newController(cmd.Context(), nil)
			if err != nil {
				return err
			}
			if j != nil {
				defer j.Close()
			}

			if err := ctrl.Reload(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", dashboard.MsgLoadFailed, err)
			}

			if err := selectIndices(ctrl, indices, all, query); err != nil {
				return err
			}
			if len(ctrl.Selected()) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), dashboard.MsgEmpty)
				return nil
			}

			status, err := ctrl.Submit(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", status.Message, err)
			}
			if status.Kind == models.StatusError {
				return errors.New(status.Message)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, status.Message)
			if status.PrintURL != "" {
				fmt.Fprintln(out, status.PrintURL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Select every row matching --query")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter applied with --all")
	return cmd
}

func selectIndices(ctrl *dashboard.Controller, indices []int, all bool, query string) error {
	if all {
		ctrl.ToggleAll(query)
		return nil
	}

	known := make(map[int]bool)
	for _, rec := range ctrl.Snapshot("").Inspections {
		known[rec.OriginalIndex] = true
	}
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if !known[idx] {
			return fmt.Errorf("no ficha for today at row %d", idx)
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		ctrl.Toggle(idx)
	}
	return nil
}
