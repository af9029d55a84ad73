package pdf

import (
	"sort"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/models"
)

// DescriptionLimit is the number of characters of a description shown on
// a ledger row.
const DescriptionLimit = 40

// LedgerRow is one formatted ledger line.
type LedgerRow struct {
	Date        string
	Description string
	Label       string
	Amount      string
	Signed      float64
}

// LedgerRows sorts entries by date and formats them. It also returns the
// balance, the sum of the signed amounts.
func LedgerRows(entries []models.FinanceEntry) ([]LedgerRow, float64) {
	sorted := make([]models.FinanceEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	rows := make([]LedgerRow, 0, len(sorted))
	var balance float64
	for _, e := range sorted {
		signed := e.SignedAmount()
		balance += signed
		label := "Entrada"
		if signed < 0 {
			label = "Saída"
		}
		rows = append(rows, LedgerRow{
			Date:        FormatDate(e.Date),
			Description: truncate(e.Description, DescriptionLimit),
			Label:       label,
			Amount:      FormatSignedBRL(signed),
			Signed:      signed,
		})
	}
	return rows, balance
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

var ledgerColumns = [...]float64{65, 250, 60, ContentWidth - 375}

// ComposeLedger lays out the ledger of a period.
func ComposeLedger(entries []models.FinanceEntry, period string, h Header) *Composer {
	c := NewComposer("Relatório Financeiro")
	h.draw(c)

	c.Line("RELATÓRIO FINANCEIRO", Heading)
	if period != "" {
		c.Line(period, Style{Size: 11, Align: AlignCenter})
	}
	c.Space(8)

	c.Row(ledgerRow("Data", "Descrição", "Tipo", "Valor"), Bold)
	c.Separator()

	rows, balance := LedgerRows(entries)
	for _, r := range rows {
		c.Row(ledgerRow(r.Date, r.Description, r.Label, r.Amount), Body)
	}

	c.Separator()
	c.Row(ledgerRow("", "Saldo", "", FormatSignedBRL(balance)), Bold)
	return c
}

func ledgerRow(date, description, label, amount string) []Column {
	return []Column{
		{Text: date, Width: ledgerColumns[0]},
		{Text: description, Width: ledgerColumns[1]},
		{Text: label, Width: ledgerColumns[2]},
		{Text: amount, Width: ledgerColumns[3], Align: AlignRight},
	}
}

// LedgerPDF renders the ledger of a period.
func LedgerPDF(entries []models.FinanceEntry, period string, h Header) ([]byte, error) {
	return ComposeLedger(entries, period, h).Bytes()
}
