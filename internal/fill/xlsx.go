package fill

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/imaging"

	"github.com/xuri/excelize/v2"
)

var xlsxTag = regexp.MustCompile(`\{%?([^{}()<>&\s]+)\}`)

// XLSXFiller fills Excel templates cell by cell.
type XLSXFiller struct {
	opts Options
}

func NewXLSXFiller(opts Options) *XLSXFiller {
	return &XLSXFiller{opts: opts}
}

func (f *XLSXFiller) MimeType() string  { return MimeXLSX }
func (f *XLSXFiller) Extension() string { return ".xlsx" }

type cellKind int

const (
	plainCell cellKind = iota
	formulaCell
	richCell
)

// cellContent is a cell value reduced to the text the scanner works on.
type cellContent struct {
	kind cellKind
	text string
}

type placement struct {
	sheet string
	cell  string
	data  []byte
}

// Fill substitutes tags in every sheet. Cells without tags and formula cells
// are left untouched; the template bytes are returned unchanged when no cell
// holds a tag.
func (f *XLSXFiller) Fill(template []byte, values Values) ([]byte, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(template))
	if err != nil {
		return nil, malformed("xlsx", err)
	}
	defer wb.Close()

	changed := false
	var images []placement
	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, malformed("xlsx", fmt.Errorf("sheet %s: %w", sheet, err))
		}
		for r, row := range rows {
			for c, raw := range row {
				if !strings.Contains(raw, "{") {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, err
				}
				content, err := readCell(wb, sheet, cell, raw)
				if err != nil {
					return nil, malformed("xlsx", err)
				}
				if content.kind == formulaCell || !xlsxTag.MatchString(content.text) {
					continue
				}

				var image []byte
				text := xlsxTag.ReplaceAllStringFunc(content.text, func(tag string) string {
					v, _ := values.lookup(xlsxTag.FindStringSubmatch(tag)[1])
					if v.IsImage() {
						if image == nil && len(v.Bytes()) > 0 {
							image = v.Bytes()
						}
						return ""
					}
					return v.String()
				})

				if err := wb.SetCellStr(sheet, cell, text); err != nil {
					return nil, fmt.Errorf("set %s!%s: %w", sheet, cell, err)
				}
				changed = true
				if image != nil {
					images = append(images, placement{sheet: sheet, cell: cell, data: image})
				}
			}
		}
	}
	if !changed {
		return template, nil
	}

	for _, p := range images {
		if err := f.place(wb, p); err != nil {
			return nil, err
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func readCell(wb *excelize.File, sheet, cell, raw string) (cellContent, error) {
	formula, err := wb.GetCellFormula(sheet, cell)
	if err != nil {
		return cellContent{}, err
	}
	if formula != "" {
		return cellContent{kind: formulaCell, text: raw}, nil
	}

	runs, err := wb.GetCellRichText(sheet, cell)
	if err != nil {
		return cellContent{}, err
	}
	if len(runs) > 0 {
		var b strings.Builder
		for _, run := range runs {
			b.WriteString(run.Text)
		}
		return cellContent{kind: richCell, text: b.String()}, nil
	}
	return cellContent{kind: plainCell, text: raw}, nil
}

// place anchors an image at its cell, stretched to the fixed cell size.
// Scaling needs the real dimensions, so content that cannot be decoded as an
// image is skipped here; the fallback display size only applies to DOCX.
func (f *XLSXFiller) place(wb *excelize.File, p placement) error {
	size, ok := imaging.Probe(p.data)
	if !ok {
		return nil
	}
	format := imaging.DetectFormat(p.data)
	scaleX := float64(f.opts.XLSXSize.Width) / float64(size.Width)
	scaleY := float64(f.opts.XLSXSize.Height) / float64(size.Height)
	err := wb.AddPictureFromBytes(p.sheet, p.cell, &excelize.Picture{
		Extension: format.Extension(),
		File:      p.data,
		Format: &excelize.GraphicOptions{
			ScaleX:      scaleX,
			ScaleY:      scaleY,
			Positioning: "oneCell",
		},
	})
	if err != nil {
		return fmt.Errorf("place image at %s!%s: %w", p.sheet, p.cell, err)
	}
	return nil
}
