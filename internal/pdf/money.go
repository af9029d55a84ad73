package pdf

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL formats the magnitude of v as Brazilian reais: 1234.5 is
// "R$ 1.234,50".
func FormatBRL(v float64) string {
	return "R$ " + brl.Sprintf("%.2f", math.Abs(v))
}

// FormatSignedBRL prefixes non-negative amounts with "+". Negative amounts
// carry no sign; the Saída label marks them.
func FormatSignedBRL(v float64) string {
	if v >= 0 {
		return "+" + FormatBRL(v)
	}
	return FormatBRL(v)
}
