// Package fill replaces {tag} placeholders in Word and Excel templates.
package fill

import "sort"

type valueKind int

const (
	textValue valueKind = iota
	imageValue
)

// Value is a substitution value: display text or image content.
type Value struct {
	kind  valueKind
	text  string
	image []byte
}

// Text returns a text value.
func Text(s string) Value {
	return Value{kind: textValue, text: s}
}

// Image returns an image value. Nil or empty data marks an image site that
// has nothing to show; its placeholder is still removed.
func Image(data []byte) Value {
	return Value{kind: imageValue, image: data}
}

func (v Value) IsImage() bool { return v.kind == imageValue }

// String returns the display text. Image values render as empty text.
func (v Value) String() string {
	if v.kind == imageValue {
		return ""
	}
	return v.text
}

// Bytes returns the image content, if any.
func (v Value) Bytes() []byte {
	return v.image
}

// Values maps tag names to their values. Tags missing from the map resolve
// to the empty string.
type Values map[string]Value

// FromStrings builds text values from a plain map.
func FromStrings(m map[string]string) Values {
	vs := make(Values, len(m))
	for k, v := range m {
		vs[k] = Text(v)
	}
	return vs
}

func (vs Values) SetText(tag, s string) { vs[tag] = Text(s) }

func (vs Values) SetImage(tag string, data []byte) { vs[tag] = Image(data) }

// Tags returns the tag names in sorted order.
func (vs Values) Tags() []string {
	tags := make([]string, 0, len(vs))
	for k := range vs {
		tags = append(tags, k)
	}
	sort.Strings(tags)
	return tags
}

func (vs Values) lookup(tag string) (Value, bool) {
	v, ok := vs[tag]
	return v, ok
}
