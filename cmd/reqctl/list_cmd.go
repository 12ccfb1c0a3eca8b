package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"canna-backoffice-requests/internal/requests"

	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending registrations and plan changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				return s.list(ctx, search, opts.jsonOutput)
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by name, email or id")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show pending request counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				return s.stats(ctx, opts.jsonOutput)
			})
		},
	}
}

func (s *session) list(ctx context.Context, search string, asJSON bool) error {
	model, err := s.requests.Model(ctx, search)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(s.out, model)
	}
	if len(model.Rows) == 0 {
		fmt.Fprintln(s.out, "Nenhuma solicitação encontrada")
		return nil
	}

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIPO\tID\tORGANIZAÇÃO\tEMAIL\tDATA\tPLANO")
	for _, row := range model.Rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", row.RequestType, row.ID, row.Name, row.Email, row.DisplayDate, planColumn(row))
	}
	return tw.Flush()
}

func (s *session) stats(ctx context.Context, asJSON bool) error {
	model, err := s.requests.Model(ctx, "")
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(s.out, model.Stats)
	}
	st := model.Stats
	fmt.Fprintf(s.out, "Total de solicitações: %d\n", st.TotalRequests)
	fmt.Fprintf(s.out, "Cadastros pendentes:   %d\n", st.PendingRegistrations)
	fmt.Fprintf(s.out, "Mudanças de plano:     %d\n", st.PendingPlanChanges)
	fmt.Fprintf(s.out, "Novas (24h):           %d\n", st.NewRequests)
	return nil
}

func planColumn(row requests.Row) string {
	if row.RequestedPlanName == "" {
		return "-"
	}
	return row.CurrentPlanName + " -> " + row.RequestedPlanName
}
