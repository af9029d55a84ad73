package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func indexOf(t *testing.T, lines []string, prefix string) int {
	t.Helper()
	for i, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return i
		}
	}
	t.Fatalf("line %q not found in %v", prefix, lines)
	return -1
}

func fullAta() *models.Ata {
	return &models.Ata{
		Status:    models.AtaPublished,
		Number:    intPtr(5),
		Year:      intPtr(2025),
		Title:     "Sessão Ordinária",
		Date:      time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "19:30",
		EndTime:   "21:00",
		Location:  "Templo Maçônico",
		Attendees: models.Attendees{
			{Name: "Carlos", Category: models.CategoryMacom},
			{Name: "João", Category: models.CategoryDeMolay},
			{Name: "Pedro", Category: models.CategoryDeMolay},
		},
		PresidingName:  "João",
		SecretaryName:  "Pedro",
		Correspondence: "Ofício recebido do Grande Capítulo.",
		Agenda:         "Planejamento da campanha.",
		OpenFloor:      "Agradecimentos.",
		Content:        "Foi discutido o calendário.",
	}
}

func TestAtaHeading(t *testing.T) {
	assert.Equal(t, "ATA Nº 005/2025", AtaHeading(fullAta()))
	assert.Equal(t, "ATA (RASCUNHO)", AtaHeading(&models.Ata{Status: models.AtaDraft}))
}

func TestAtaDateSentence(t *testing.T) {
	a := fullAta()
	assert.Equal(t, "Aos 10 dias do mês de fevereiro de 2025, às 19:30, reuniram-se os membros do Capítulo X.",
		AtaDateSentence(a, "Capítulo X"))
	assert.Equal(t, "", AtaDateSentence(&models.Ata{}, "Capítulo X"))
}

func TestComposeAtaSectionOrder(t *testing.T) {
	c := ComposeAta(fullAta(), Header{Chapter: "Capítulo Cavaleiros do Guaporé", Number: "862"})
	lines := c.Texts()

	order := []string{
		"Capítulo Cavaleiros do Guaporé nº 862",
		"ATA Nº 005/2025",
		"Sessão Ordinária",
		"Aos 10 dias do mês de fevereiro de 2025",
		"Local: Templo Maçônico.",
		"Presentes",
		"DeMolays: João, Pedro.",
		"Maçons: Carlos.",
		"Presidiu a sessão: João.",
		"Secretariou a sessão: Pedro.",
		"Expediente",
		"Ordem do Dia",
		"Palavra Livre",
		"Desenvolvimento",
		"Nada mais havendo a tratar",
	}
	prev := -1
	for _, prefix := range order {
		i := indexOf(t, lines, prefix)
		assert.Greater(t, i, prev, prefix)
		prev = i
	}
	assert.Contains(t, lines, "Mestre Conselheiro")
	assert.Contains(t, lines, "Escrivão")
}

func TestComposeAtaCollapsesEmptySections(t *testing.T) {
	a := &models.Ata{Status: models.AtaDraft, Content: "Somente o conteúdo."}
	lines := ComposeAta(a, Header{}).Texts()

	assert.Equal(t, "ATA (RASCUNHO)", lines[0])
	assert.Equal(t, "Desenvolvimento", lines[1])
	assert.Equal(t, "Somente o conteúdo.", lines[2])
	for _, absent := range []string{"Presentes", "Expediente", "Ordem do Dia", "Palavra Livre", "Local:", "Aos "} {
		for _, l := range lines {
			assert.False(t, strings.HasPrefix(l, absent), "unexpected %q", l)
		}
	}
	for _, l := range lines {
		assert.NotEmpty(t, l)
	}
}

func TestPublishedAtaKeepsUnnamedSignature(t *testing.T) {
	a := fullAta()
	a.SecretaryName = ""
	lines := ComposeAta(a, Header{}).Texts()

	n := len(lines)
	require.GreaterOrEqual(t, n, 6)
	assert.Equal(t, []string{"João", "Mestre Conselheiro"}, lines[n-5:n-3])
	assert.Equal(t, "", lines[n-2])
	assert.Equal(t, "Escrivão", lines[n-1])

	a.Status, a.Number, a.Year = models.AtaDraft, nil, nil
	assert.NotContains(t, ComposeAta(a, Header{}).Texts(), "Escrivão")
}

func TestAtaPaginatesLongContent(t *testing.T) {
	var words []string
	for i := 0; i < 1500; i++ {
		words = append(words, "palavra")
	}
	a := fullAta()
	a.Content = strings.Join(words, " ")

	c := ComposeAta(a, Header{})
	require.Greater(t, c.Pages(), 1)
	assert.Equal(t, c.Pages(), c.Frames())

	// every word of the content is placed exactly once
	var placed []string
	start := indexOf(t, c.Texts(), "Desenvolvimento") + 1
	end := indexOf(t, c.Texts(), "Nada mais havendo")
	for _, l := range c.Lines()[start:end] {
		placed = append(placed, strings.Fields(l.Text)...)
	}
	assert.Equal(t, words, placed)

	pages := map[int]bool{}
	for _, l := range c.Lines() {
		pages[l.Page] = true
	}
	assert.Len(t, pages, c.Pages())

	data, err := c.Bytes()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestLedgerRows(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC) }
	entries := []models.FinanceEntry{
		{Date: day(15), Description: "Compra de materiais", Amount: -50},
		{Date: day(1), Description: "Mensalidades", Type: models.EntryIncome, Amount: 1234.5},
		{Date: day(10), Description: strings.Repeat("x", 60), Type: models.EntryExpense, Amount: 100},
	}

	rows, balance := LedgerRows(entries)
	require.Len(t, rows, 3)

	assert.Equal(t, "01/03/2025", rows[0].Date)
	assert.Equal(t, "Entrada", rows[0].Label)
	assert.Equal(t, "+R$ 1.234,50", rows[0].Amount)

	assert.Equal(t, "10/03/2025", rows[1].Date)
	assert.Equal(t, strings.Repeat("x", DescriptionLimit), rows[1].Description)
	assert.Equal(t, "Saída", rows[1].Label)

	assert.Equal(t, "Saída", rows[2].Label)
	assert.Equal(t, "R$ 50,00", rows[2].Amount)

	assert.InDelta(t, 1084.5, balance, 0.001)
	assert.Equal(t, "+R$ 1.084,50", FormatSignedBRL(balance))
}

func TestComposeLedger(t *testing.T) {
	entries := []models.FinanceEntry{
		{Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), Description: "Doação", Type: models.EntryIncome, Amount: 10},
		{Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Description: "Lanche", Type: models.EntryExpense, Amount: 30},
	}
	c := ComposeLedger(entries, "01/01/2025 a 31/01/2025", Header{Chapter: "Capítulo"})
	lines := c.Texts()

	assert.Less(t, indexOf(t, lines, "02/01/2025"), indexOf(t, lines, "05/01/2025"))
	assert.Equal(t, " | Saldo |  | R$ 20,00", lines[len(lines)-1])

	data, err := c.Bytes()
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestComposeRollCall(t *testing.T) {
	members := []models.Member{
		{Base: models.Base{ID: 1}, Name: "João", Category: models.CategoryDeMolay},
		{Base: models.Base{ID: 2}, Name: "Carlos", Category: models.CategoryMacom},
		{Base: models.Base{ID: 3}, Name: "Pedro", Category: models.CategoryDeMolay},
	}
	rc := &models.RollCall{
		Date:     time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Presence: models.Presence{"1": true, "2": false},
	}

	order, groups, totals := RollCallGroups(rc, members)
	assert.Equal(t, []models.MemberCategory{models.CategoryDeMolay, models.CategoryMacom}, order)
	assert.Len(t, groups[models.CategoryDeMolay], 2)
	assert.Equal(t, RollCallTotals{Present: 1, Absent: 2}, totals)

	lines := ComposeRollCall(rc, members, Header{}).Texts()
	assert.Contains(t, lines, "João | Presente")
	assert.Contains(t, lines, "Pedro | Ausente")
	assert.Less(t, indexOf(t, lines, "DeMolays"), indexOf(t, lines, "Maçons"))
	assert.Equal(t, "Presentes: 1   Ausentes: 2   Total: 3", lines[len(lines)-1])
}
