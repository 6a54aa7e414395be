package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/ukaji3/fichas-go/pkg/fichas/dashboard"
)

func newListCmd(a *app) *cobra.Command {
	var (
		query  string
		asJSON bool
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List today's fichas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			snap := ctrl.Snapshot(query)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, snap, pretty)
			}
			return writeFichas(out, snap)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by name, CPF, RG or code")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the dashboard state as JSON")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func writeFichas(w io.Writer, snap dashboard.Snapshot) error {
	if snap.Empty {
		_, err := fmt.Fprintln(w, dashboard.MsgEmpty)
		return err
	}

	s := snap.Stats
	if _, err := fmt.Fprintf(w, "Fichas: %d  Inspecionandos: %d  Homens: %d  Mulheres: %d\n\n",
		s.TotalFichas, s.UniqueInspecionandos, s.Homens, s.Mulheres); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "IDX\tCONTROLE\tNOME\tSEXO\tIDADE\tPOSTO\tFINALIDADE\tGRUPO")
	for _, r := range snap.Inspections {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			r.OriginalIndex, r.Controle, r.Nome, r.Sexo, r.Idade, r.Posto, r.Finalidade, r.Grupo)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(snap.Inspections) < snap.Total {
		_, err := fmt.Fprintf(w, "\n%d de %d ficha(s) exibida(s).\n", len(snap.Inspections), snap.Total)
		return err
	}
	return nil
}
