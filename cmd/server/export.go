package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/groupsplit/internal/export"
	"github.com/mmynk/groupsplit/internal/ledger"
	"github.com/mmynk/groupsplit/internal/storage/sqlite"
)

func newExportCommand(load configLoader) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write balances and transactions to an XLSX workbook",
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

			report, err := export.Build(cmd.Context(), ledger.New(store))
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := export.Write(f, report); err != nil {
				f.Close()
				return fmt.Errorf("writing report: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}

			slog.Info("Report exported", "path", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "groupsplit.xlsx", "output file")
	return cmd
}
