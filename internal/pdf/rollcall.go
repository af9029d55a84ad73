package pdf

import (
	"fmt"
	"strconv"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/models"
)

// RollCallTotals counts the members listed on a roll call.
type RollCallTotals struct {
	Present int
	Absent  int
}

// RollCallGroups orders members by category and reports attendance totals.
// Members missing from the presence map count as absent.
func RollCallGroups(rc *models.RollCall, members []models.Member) ([]models.MemberCategory, map[models.MemberCategory][]models.Member, RollCallTotals) {
	groups := make(map[models.MemberCategory][]models.Member)
	var totals RollCallTotals
	var extra []models.MemberCategory
	for _, m := range members {
		if _, seen := groups[m.Category]; !seen && !known(m.Category) {
			extra = append(extra, m.Category)
		}
		groups[m.Category] = append(groups[m.Category], m)
		if present(rc, m) {
			totals.Present++
		} else {
			totals.Absent++
		}
	}

	var order []models.MemberCategory
	for _, cat := range models.CategoryOrder {
		if len(groups[cat]) > 0 {
			order = append(order, cat)
		}
	}
	return append(order, extra...), groups, totals
}

func known(c models.MemberCategory) bool {
	for _, k := range models.CategoryOrder {
		if k == c {
			return true
		}
	}
	return false
}

func present(rc *models.RollCall, m models.Member) bool {
	return rc.Presence[strconv.FormatUint(uint64(m.ID), 10)]
}

// ComposeRollCall lays out an attendance roster.
func ComposeRollCall(rc *models.RollCall, members []models.Member, h Header) *Composer {
	c := NewComposer("Chamada")
	h.draw(c)

	c.Line("LISTA DE PRESENÇA", Heading)
	if rc.Title != "" {
		c.Paragraph(rc.Title, Style{Size: 12, Bold: true, Align: AlignCenter})
	}
	if !rc.Date.IsZero() {
		c.Line("Data: "+FormatDate(rc.Date), Style{Size: 11, Align: AlignCenter})
	}
	c.Space(8)

	order, groups, totals := RollCallGroups(rc, members)
	for _, cat := range order {
		c.Space(4)
		c.Line(cat.Label(), Bold)
		for _, m := range groups[cat] {
			mark := "Ausente"
			if present(rc, m) {
				mark = "Presente"
			}
			c.Row([]Column{
				{Text: m.Name, Width: ContentWidth - 100},
				{Text: mark, Width: 100, Align: AlignRight},
			}, Body)
		}
	}

	c.Separator()
	c.Line(fmt.Sprintf("Presentes: %d   Ausentes: %d   Total: %d", totals.Present, totals.Absent, totals.Present+totals.Absent), Bold)
	return c
}

// RollCallPDF renders an attendance roster.
func RollCallPDF(rc *models.RollCall, members []models.Member, h Header) ([]byte, error) {
	return ComposeRollCall(rc, members, h).Bytes()
}
