package pdf

import (
	"fmt"
	"strings"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/models"
)

// AtaHeading is the first line of a minute: its number once published.
func AtaHeading(a *models.Ata) string {
	if a.IsPublished() && a.Number != nil && a.Year != nil {
		return fmt.Sprintf("ATA Nº %03d/%d", *a.Number, *a.Year)
	}
	return "ATA (RASCUNHO)"
}

// AtaDateSentence is the opening sentence of a minute, or "" without a date.
func AtaDateSentence(a *models.Ata, chapter string) string {
	if a.Date.IsZero() {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Aos %d dias do mês de %s de %d", a.Date.Day(), MonthName(a.Date.Month()), a.Date.Year())
	if a.StartTime != "" {
		fmt.Fprintf(&b, ", às %s", a.StartTime)
	}
	if chapter != "" {
		fmt.Fprintf(&b, ", reuniram-se os membros do %s", chapter)
	}
	b.WriteString(".")
	return b.String()
}

// ComposeAta lays a minute out. Sections without data are left out.
func ComposeAta(a *models.Ata, h Header) *Composer {
	c := NewComposer(AtaHeading(a))
	h.draw(c)

	c.Line(AtaHeading(a), Heading)
	if a.Title != "" {
		c.Paragraph(a.Title, Style{Size: 12, Bold: true, Align: AlignCenter})
	}
	c.Space(8)

	c.Paragraph(AtaDateSentence(a, h.Name()), Body)
	if a.Location != "" {
		c.Paragraph("Local: "+a.Location+".", Body)
	}

	order, groups := a.AttendeesByCategory()
	if len(order) > 0 {
		c.Space(6)
		c.Line("Presentes", Bold)
		for _, cat := range order {
			c.Paragraph(fmt.Sprintf("%s: %s.", cat.Label(), strings.Join(groups[cat], ", ")), Body)
		}
	}

	if a.PresidingName != "" || a.SecretaryName != "" {
		c.Space(6)
		if a.PresidingName != "" {
			c.Paragraph("Presidiu a sessão: "+a.PresidingName+".", Body)
		}
		if a.SecretaryName != "" {
			c.Paragraph("Secretariou a sessão: "+a.SecretaryName+".", Body)
		}
	}

	section(c, "Expediente", a.Correspondence)
	section(c, "Ordem do Dia", a.Agenda)
	section(c, "Palavra Livre", a.OpenFloor)
	section(c, "Desenvolvimento", a.Content)

	c.Space(10)
	closing := "Nada mais havendo a tratar, a sessão foi encerrada"
	if a.EndTime != "" {
		closing += " às " + a.EndTime
	}
	closing += ", e eu, Escrivão, lavrei a presente ata, que vai assinada por mim e pelo Mestre Conselheiro."
	c.Paragraph(closing, Body)

	signature(c, a.PresidingName, "Mestre Conselheiro", a.IsPublished())
	signature(c, a.SecretaryName, "Escrivão", a.IsPublished())
	return c
}

func section(c *Composer, title, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	c.Space(6)
	c.Line(title, Bold)
	c.Paragraph(text, Body)
}

// signature draws a signing line over the signer's name and role. A
// published minute keeps the block even without a name, leaving a blank line
// to write it in by hand.
func signature(c *Composer, name, role string, keep bool) {
	if name == "" && !keep {
		return
	}
	s := Style{Size: 11, Align: AlignCenter}
	c.Space(28)
	c.Line("________________________________________", s)
	for _, line := range WrapAtLeastOne(name, ContentWidth, c.Measure(s)) {
		c.Line(line, s)
	}
	c.Line(role, Style{Size: 9, Align: AlignCenter})
}

// AtaPDF renders a minute.
func AtaPDF(a *models.Ata, h Header) ([]byte, error) {
	return ComposeAta(a, h).Bytes()
}
