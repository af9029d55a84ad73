package fill

import (
	"errors"
	"fmt"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/imaging"
)

const (
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ErrMalformedTemplate is returned when the template bytes are not a
// readable document of the expected format.
var ErrMalformedTemplate = errors.New("malformed template")

// Filler fills one template format.
type Filler interface {
	Fill(template []byte, values Values) ([]byte, error)
	MimeType() string
	Extension() string
}

// Options sizes embedded images.
type Options struct {
	// DocxBox bounds images placed in Word paragraphs.
	DocxBox imaging.Size
	// DocxFallback is used when the image dimensions cannot be read.
	DocxFallback imaging.Size
	// XLSXSize is the fixed size of images anchored to spreadsheet cells.
	XLSXSize imaging.Size
}

// DefaultOptions matches the signature boxes of the chapter templates.
func DefaultOptions() Options {
	return Options{
		DocxBox:      imaging.Size{Width: 150, Height: 60},
		DocxFallback: imaging.Size{Width: 150, Height: 50},
		XLSXSize:     imaging.Size{Width: 120, Height: 50},
	}
}

// ForFormat returns the filler for "docx" or "xlsx".
func ForFormat(format string, opts Options) (Filler, error) {
	switch format {
	case "docx":
		return NewDOCXFiller(opts), nil
	case "xlsx":
		return NewXLSXFiller(opts), nil
	default:
		return nil, fmt.Errorf("unsupported template format: %q", format)
	}
}

func malformed(format string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformedTemplate, format, err)
}
