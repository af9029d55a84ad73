package imaging

import "math"

// FitWithin scales s down, keeping the aspect ratio, until it fits inside
// box. Images already inside the box keep their size.
func FitWithin(s, box Size) Size {
	if s.Width <= 0 || s.Height <= 0 {
		return box
	}
	scale := math.Min(float64(box.Width)/float64(s.Width), float64(box.Height)/float64(s.Height))
	if scale >= 1 {
		return s
	}
	w := int(math.Round(float64(s.Width) * scale))
	h := int(math.Round(float64(s.Height) * scale))
	return Size{Width: max(w, 1), Height: max(h, 1)}
}

// DisplaySize probes data and fits it into box, falling back to fallback
// when the dimensions cannot be read.
func DisplaySize(data []byte, box, fallback Size) Size {
	s, ok := Probe(data)
	if !ok {
		return fallback
	}
	return FitWithin(s, box)
}
