package pdf

import (
	"fmt"
	"time"
)

// Header is the letterhead printed at the top of every document.
type Header struct {
	Chapter string
	Number  string
	City    string
	Logo    []byte
}

// Name is the chapter name with its number.
func (h Header) Name() string {
	switch {
	case h.Chapter != "" && h.Number != "":
		return fmt.Sprintf("%s nº %s", h.Chapter, h.Number)
	default:
		return h.Chapter
	}
}

func (h Header) draw(c *Composer) {
	if len(h.Logo) > 0 {
		c.Logo(h.Logo, 60)
	}
	if name := h.Name(); name != "" {
		c.Line(name, Style{Size: 12, Bold: true, Align: AlignCenter})
		c.Space(6)
	}
}

var months = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// MonthName returns the Portuguese month name.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return months[m-1]
}

// FormatDate renders a date as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
