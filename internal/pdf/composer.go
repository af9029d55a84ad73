// Package pdf draws the chapter's PDF documents directly, without templates.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/imaging"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// A4 in points.
const (
	PageWidth  = 595.28
	PageHeight = 841.89

	marginX      = 60.0
	marginTop    = 60.0
	marginBottom = 60.0
	frameOuter   = 20.0
	frameInner   = 25.0
	lineFactor   = 1.45

	fontFamily = "Helvetica"
)

// ContentWidth is the usable width between the side margins.
const ContentWidth = PageWidth - 2*marginX

// Align positions a line horizontally.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Style is the font and alignment of a block of text.
type Style struct {
	Size  float64
	Bold  bool
	Align Align
}

var (
	Body    = Style{Size: 11}
	Bold    = Style{Size: 11, Bold: true}
	Heading = Style{Size: 14, Bold: true, Align: AlignCenter}
	Small   = Style{Size: 9}
)

// Line is a line of text as placed on a page.
type Line struct {
	Page int
	Text string
}

// Column is one cell of a table row.
type Column struct {
	Text  string
	Width float64
	Align Align
}

// Composer lays text out top to bottom, adding framed pages as needed.
type Composer struct {
	pdf     *fpdf.Fpdf
	y       float64
	pages   int
	frames  int
	lines   []Line
	encoder *encoding.Encoder
}

// NewComposer starts a document with its first page.
func NewComposer(title string) *Composer {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(marginX, marginTop, marginX)
	doc.SetAutoPageBreak(false, marginBottom)
	doc.SetTitle(title, true)
	doc.SetCreator("capitulo862", true)

	c := &Composer{
		pdf:     doc,
		encoder: encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()),
	}
	c.NewPage()
	return c
}

// NewPage appends a page, draws the frame and resets the cursor.
func (c *Composer) NewPage() {
	c.pdf.AddPage()
	c.pages++
	c.drawFrame()
	c.y = marginTop
}

func (c *Composer) drawFrame() {
	c.pdf.SetDrawColor(40, 40, 40)
	c.pdf.SetLineWidth(1.5)
	c.pdf.Rect(frameOuter, frameOuter, PageWidth-2*frameOuter, PageHeight-2*frameOuter, "D")
	c.pdf.SetLineWidth(0.5)
	c.pdf.Rect(frameInner, frameInner, PageWidth-2*frameInner, PageHeight-2*frameInner, "D")
	c.frames++
}

// Pages returns the number of pages so far.
func (c *Composer) Pages() int { return c.pages }

// Frames returns how many page frames were drawn.
func (c *Composer) Frames() int { return c.frames }

// Lines returns every line placed, in order.
func (c *Composer) Lines() []Line { return c.lines }

// Texts returns the text of every placed line.
func (c *Composer) Texts() []string {
	out := make([]string, len(c.lines))
	for i, l := range c.lines {
		out[i] = l.Text
	}
	return out
}

func lineHeight(s Style) float64 {
	return s.Size * lineFactor
}

// ensure starts a new page when h no longer fits above the bottom margin.
func (c *Composer) ensure(h float64) {
	if c.y+h > PageHeight-marginBottom {
		c.NewPage()
	}
}

func (c *Composer) setFont(s Style) {
	style := ""
	if s.Bold {
		style = "B"
	}
	c.pdf.SetFont(fontFamily, style, s.Size)
}

func (c *Composer) encode(s string) string {
	out, err := c.encoder.String(s)
	if err != nil {
		return s
	}
	return strings.ReplaceAll(out, "\x1a", "?")
}

// Measure returns the rendered width of s in style.
func (c *Composer) Measure(s Style) func(string) float64 {
	return func(text string) float64 {
		c.setFont(s)
		return c.pdf.GetStringWidth(c.encode(text))
	}
}

// Paragraph wraps text to the content width and places it line by line,
// breaking pages mid-paragraph. Blank text places nothing.
func (c *Composer) Paragraph(text string, s Style) {
	for _, line := range Wrap(text, ContentWidth, c.Measure(s)) {
		c.place(line, s)
	}
}

// Line places a single unwrapped line.
func (c *Composer) Line(text string, s Style) {
	c.place(text, s)
}

func (c *Composer) place(text string, s Style) {
	h := lineHeight(s)
	c.ensure(h)
	c.setFont(s)

	encoded := c.encode(text)
	x := marginX
	switch s.Align {
	case AlignCenter:
		x = (PageWidth - c.pdf.GetStringWidth(encoded)) / 2
	case AlignRight:
		x = PageWidth - marginX - c.pdf.GetStringWidth(encoded)
	}
	c.pdf.Text(x, c.y+s.Size, encoded)
	c.y += h
	c.lines = append(c.lines, Line{Page: c.pages, Text: text})
}

// Space moves the cursor down without placing text.
func (c *Composer) Space(h float64) {
	if c.y+h > PageHeight-marginBottom {
		c.NewPage()
		return
	}
	c.y += h
}

// Separator draws a horizontal rule across the content width.
func (c *Composer) Separator() {
	c.ensure(8)
	c.pdf.SetLineWidth(0.5)
	c.pdf.Line(marginX, c.y+4, PageWidth-marginX, c.y+4)
	c.y += 8
}

// Row places one table row. Column text is cut to fit its width.
func (c *Composer) Row(cols []Column, s Style) {
	h := lineHeight(s)
	c.ensure(h)
	c.setFont(s)

	x := marginX
	texts := make([]string, 0, len(cols))
	for _, col := range cols {
		encoded := c.encode(fit(col.Text, col.Width, c.Measure(s)))
		tx := x
		switch col.Align {
		case AlignCenter:
			tx = x + (col.Width-c.pdf.GetStringWidth(encoded))/2
		case AlignRight:
			tx = x + col.Width - c.pdf.GetStringWidth(encoded)
		}
		c.setFont(s)
		c.pdf.Text(tx, c.y+s.Size, encoded)
		texts = append(texts, col.Text)
		x += col.Width
	}
	c.y += h
	c.lines = append(c.lines, Line{Page: c.pages, Text: strings.Join(texts, " | ")})
}

func fit(text string, width float64, measure func(string) float64) string {
	if measure(text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && measure(string(runes)) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

// Logo draws an image centred at the cursor, height h. Data that is not
// a readable image is skipped.
func (c *Composer) Logo(data []byte, h float64) {
	size, ok := imaging.Probe(data)
	if !ok {
		return
	}
	format := strings.ToUpper(string(imaging.DetectFormat(data)))
	opts := fpdf.ImageOptions{ImageType: format, ReadDpi: false}
	name := fmt.Sprintf("logo%d", c.pages)

	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if c.pdf.Err() {
		c.pdf.ClearError()
		return
	}

	w := h * float64(size.Width) / float64(size.Height)
	c.ensure(h)
	c.pdf.ImageOptions(name, (PageWidth-w)/2, c.y, w, h, false, opts, 0, "")
	c.y += h + 8
}

// Bytes renders the document.
func (c *Composer) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
