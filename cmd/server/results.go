package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/groupsplit/internal/ledger"
	"github.com/mmynk/groupsplit/internal/storage/sqlite"
)

func newResultsCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "Print balances and proposed transactions from the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := sqlite.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}
			defer store.Close()

			return printResults(cmd.Context(), cmd.OutOrStdout(), ledger.New(store))
		},
	}
}

func printResults(ctx context.Context, out io.Writer, l *ledger.Ledger) error {
	results, err := l.ReadResults(ctx)
	if err != nil {
		return err
	}

	names := make(map[string]string, len(results.Balances))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MEMBER\tPAID\tSHOULD PAY\tBALANCE\t")
	for _, b := range results.Balances {
		names[b.MemberID] = b.Name
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t\n", b.Name, b.Paid, b.ShouldPay, b.Balance)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if len(results.Transactions) == 0 {
		fmt.Fprintln(out, "Everyone is settled up.")
	}
	for _, t := range results.Transactions {
		fmt.Fprintf(out, "%s pays %s %d\n", names[t.FromMemberID], names[t.ToMemberID], t.Amount)
	}

	s := results.Summary
	fmt.Fprintf(out, "\nTotal %d across %d activities, %d members, average %d, rounding loss %d\n",
		s.TotalSpent, s.ActivityCount, s.MemberCount, s.AveragePerMember, s.RoundingLoss)
	return nil
}
