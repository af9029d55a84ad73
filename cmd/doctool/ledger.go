package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/models"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/pdf"

	"github.com/spf13/cobra"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Render a ledger PDF from a JSON list of entries",
	RunE:  runLedger,
}

var (
	ledgerEntries string
	ledgerOut     string
	ledgerPeriod  string
	ledgerChapter string
	ledgerNumber  string
)

func init() {
	ledgerCmd.Flags().StringVarP(&ledgerEntries, "entries", "e", "", "JSON array of finance entries")
	ledgerCmd.Flags().StringVarP(&ledgerOut, "out", "o", "", "Output PDF")
	ledgerCmd.Flags().StringVar(&ledgerPeriod, "period", "", "Period line printed under the title")
	ledgerCmd.Flags().StringVar(&ledgerChapter, "chapter", "Capítulo Cavaleiros do Guaporé", "Chapter name")
	ledgerCmd.Flags().StringVar(&ledgerNumber, "number", "862", "Chapter number")
	_ = ledgerCmd.MarkFlagRequired("entries")
	_ = ledgerCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(ledgerCmd)
}

func runLedger(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(ledgerEntries)
	if err != nil {
		return fmt.Errorf("failed to read entries: %w", err)
	}
	var entries []models.FinanceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to decode entries: %w", err)
	}
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}

	out, err := pdf.LedgerPDF(entries, ledgerPeriod, pdf.Header{Chapter: ledgerChapter, Number: ledgerNumber})
	if err != nil {
		return err
	}
	if err := os.WriteFile(ledgerOut, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	_, balance := pdf.LedgerRows(entries)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d entries, saldo %s)\n", ledgerOut, len(entries), pdf.FormatSignedBRL(balance))
	return nil
}
