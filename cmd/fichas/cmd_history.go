package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/ukaji3/fichas-go/pkg/fichas/journal"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit  int
		asJSON bool
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent submissions from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Journal.Path == "" {
				return errors.New("journal disabled: set journal.path or FICHAS_JOURNAL")
			}
			j, err := journal.Open(cmd.Context(), a.cfg.Journal.Path)
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, entries, pretty)
			}
			return writeHistory(out, entries)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func writeHistory(w io.Writer, entries []journal.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "QUANDO\tRESULTADO\tLINHAS\tMENSAGEM")
	for _, e := range entries {
		rows := make([]string, len(e.Indices))
		for i, idx := range e.Indices {
			rows[i] = strconv.Itoa(idx)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.SubmittedAt.Local().Format("02/01/2006 15:04:05"), e.Outcome, strings.Join(rows, ","), e.Message)
	}
	return tw.Flush()
}
