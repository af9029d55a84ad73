package fill

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/imaging"

	"github.com/lukasjarosch/go-docx"
)

const (
	documentPart     = "word/document.xml"
	contentTypesPart = "[Content_Types].xml"

	relImage = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	emuPerPx = 9525

	breakRun = `</w:t><w:br/><w:t xml:space="preserve">`
)

var (
	// {tag} and {%tag}; a ")" closer is accepted for tags that have a value.
	docxCloser  = regexp.MustCompile(`\{(%?)([^{}()<>&\s]+)\)`)
	docxTag     = regexp.MustCompile(`\{(%?)([^{}()<>&\s]+)\}`)
	textNode    = regexp.MustCompile(`(<w:t(?:\s[^>]*)?>)([^<]*)(</w:t>)`)
	imageMarker = regexp.MustCompile(`<!--fill-image:(\d+)-->`)
	slotMarker  = regexp.MustCompile(`@@fill:(\d+)@@`)
)

// DOCXFiller fills Word templates. Placeholder lookup and run fragment
// repair go through go-docx; values are rendered and images embedded on the
// markup it writes back.
type DOCXFiller struct {
	opts Options
}

func NewDOCXFiller(opts Options) *DOCXFiller {
	return &DOCXFiller{opts: opts}
}

func (f *DOCXFiller) MimeType() string  { return MimeDOCX }
func (f *DOCXFiller) Extension() string { return ".docx" }

// Fill substitutes every tag and embeds image values. The template bytes are
// returned unchanged when no tag is present.
func (f *DOCXFiller) Fill(template []byte, values Values) ([]byte, error) {
	pkg, err := readPackage(template)
	if err != nil {
		return nil, malformed("docx", err)
	}
	main, ok := pkg.get(documentPart)
	if !ok {
		return nil, malformed("docx", errors.New("missing "+documentPart))
	}
	if err := checkXML(main.data); err != nil {
		return nil, malformed("docx", err)
	}

	scan := &docxScan{values: values, replace: docx.PlaceholderMap{}}
	for _, e := range pkg.entries {
		if !isTextPart(e.name) {
			continue
		}
		if out, changed := normalizeClosers(string(e.data), values); changed {
			pkg.put(e.name, []byte(out))
		}
		scan.collect(string(e.data))
	}
	if len(scan.replace) == 0 {
		return template, nil
	}

	normalized, err := pkg.bytes()
	if err != nil {
		return nil, err
	}
	replaced, err := replacePlaceholders(normalized, scan.replace)
	if err != nil {
		return nil, malformed("docx", err)
	}

	out, err := readPackage(replaced)
	if err != nil {
		return nil, malformed("docx", err)
	}
	// images are embedded only once every part has been scanned
	for _, e := range out.entries {
		if !isTextPart(e.name) || !slotMarker.Match(e.data) {
			continue
		}
		rendered := scan.render(string(e.data))
		text, err := f.embed(out, e.name, rendered, scan.sites)
		if err != nil {
			return nil, malformed("docx", err)
		}
		out.put(e.name, []byte(text))
	}
	return out.bytes()
}

func replacePlaceholders(template []byte, replace docx.PlaceholderMap) ([]byte, error) {
	doc, err := docx.OpenBytes(template)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if err := doc.ReplaceAll(replace); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isTextPart(name string) bool {
	if name == documentPart {
		return true
	}
	if !strings.HasSuffix(name, ".xml") || strings.Contains(name, "/_rels/") {
		return false
	}
	return strings.HasPrefix(name, "word/header") || strings.HasPrefix(name, "word/footer")
}

// normalizeClosers rewrites {tag) as {tag} for tags that have a value. The
// brace of an unmapped {tag) becomes a character reference so the literal
// text never reads as a placeholder opening.
func normalizeClosers(doc string, values Values) (string, bool) {
	changed := false
	out := textNode.ReplaceAllStringFunc(doc, func(node string) string {
		m := textNode.FindStringSubmatch(node)
		if !docxCloser.MatchString(m[2]) {
			return node
		}
		changed = true
		inner := docxCloser.ReplaceAllStringFunc(m[2], func(tag string) string {
			t := docxCloser.FindStringSubmatch(tag)
			if _, known := values.lookup(t[2]); known {
				return "{" + t[1] + t[2] + "}"
			}
			return "&#123;" + t[1] + t[2] + ")"
		})
		return m[1] + inner + m[3]
	})
	return out, changed
}

// docxScan decides the replacement of every placeholder found in the
// template. Values are handed to go-docx as slot markers and rendered
// afterwards, so escaping, line breaks and image sites stay under our
// control.
type docxScan struct {
	values  Values
	replace docx.PlaceholderMap
	slots   []Value
	sites   [][]byte
}

// collect finds placeholders on the paragraph text, which joins the text
// nodes a placeholder may be split across.
func (s *docxScan) collect(doc string) {
	for _, para := range strings.SplitAfter(doc, "</w:p>") {
		var text strings.Builder
		for _, m := range textNode.FindAllStringSubmatch(para, -1) {
			text.WriteString(m[2])
		}
		for _, t := range docxTag.FindAllStringSubmatch(text.String(), -1) {
			key := t[1] + t[2]
			if _, seen := s.replace[key]; seen {
				continue
			}
			s.replace[key] = s.slot(t[1] == "%", t[2])
		}
	}
}

func (s *docxScan) slot(imageTag bool, name string) string {
	v, known := s.values.lookup(name)
	switch {
	case !known:
		return ""
	case imageTag && !v.IsImage():
		return ""
	case v.IsImage() && len(v.Bytes()) == 0:
		return ""
	case !v.IsImage() && v.String() == "":
		return ""
	}
	s.slots = append(s.slots, v)
	return fmt.Sprintf("@@fill:%d@@", len(s.slots)-1)
}

// render turns slot markers into escaped text or image markers.
func (s *docxScan) render(doc string) string {
	return textNode.ReplaceAllStringFunc(doc, func(node string) string {
		m := textNode.FindStringSubmatch(node)
		if !slotMarker.MatchString(m[2]) {
			return node
		}
		inner := slotMarker.ReplaceAllStringFunc(m[2], func(marker string) string {
			n, _ := strconv.Atoi(slotMarker.FindStringSubmatch(marker)[1])
			v := s.slots[n]
			if v.IsImage() {
				return s.addSite(v.Bytes())
			}
			return escapeValue(v.String())
		})
		return preserveSpace(m[1]) + inner + m[3]
	})
}

func (s *docxScan) addSite(data []byte) string {
	s.sites = append(s.sites, data)
	return fmt.Sprintf("<!--fill-image:%d-->", len(s.sites)-1)
}

func preserveSpace(open string) string {
	if strings.Contains(open, "xml:space=") {
		return open
	}
	return strings.TrimSuffix(open, ">") + ` xml:space="preserve">`
}

func escapeValue(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		var b strings.Builder
		xml.EscapeText(&b, []byte(strings.TrimSuffix(line, "\r")))
		lines[i] = b.String()
	}
	return strings.Join(lines, breakRun)
}

// embed replaces each image marker with a drawing run placed right after
// the run that held the placeholder.
func (f *DOCXFiller) embed(pkg *docxPackage, part, doc string, sites [][]byte) (string, error) {
	var b strings.Builder
	rest := doc
	for {
		loc := imageMarker.FindStringSubmatchIndex(rest)
		if loc == nil {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:loc[0]])
		pending := []string{rest[loc[2]:loc[3]]}
		rest = rest[loc[1]:]

		end := strings.Index(rest, "</w:r>")
		if end < 0 {
			continue
		}
		run := rest[:end]
		for _, m := range imageMarker.FindAllStringSubmatch(run, -1) {
			pending = append(pending, m[1])
		}
		b.WriteString(imageMarker.ReplaceAllString(run, ""))
		b.WriteString("</w:r>")
		rest = rest[end+len("</w:r>"):]

		for _, p := range pending {
			n, err := strconv.Atoi(p)
			if err != nil || n >= len(sites) {
				continue
			}
			drawing, err := f.drawing(pkg, part, sites[n])
			if err != nil {
				return "", err
			}
			b.WriteString(drawing)
		}
	}
	return b.String(), nil
}

func (f *DOCXFiller) drawing(pkg *docxPackage, part string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	format := imaging.DetectFormat(data)
	size := imaging.DisplaySize(data, f.opts.DocxBox, f.opts.DocxFallback)

	media := pkg.uniqueName("word/media/fill_image", format.Extension())
	pkg.put(media, data)

	target := strings.TrimPrefix(media, path.Dir(part)+"/")
	rID, err := pkg.addRelationship(part, target)
	if err != nil {
		return "", err
	}
	if err := pkg.ensureDefaultContentType(strings.TrimPrefix(format.Extension(), "."), format.ContentType()); err != nil {
		return "", err
	}

	id := pkg.nextDrawingID()
	cx, cy := size.Width*emuPerPx, size.Height*emuPerPx
	name := path.Base(media)
	return fmt.Sprintf(`<w:r><w:drawing>`+
		`<wp:inline distT="0" distB="0" distL="0" distR="0" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">`+
		`<wp:extent cx="%d" cy="%d"/><wp:docPr id="%d" name="%s"/>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`,
		cx, cy, id, name, id, name, rID, cx, cy), nil
}

func checkXML(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

type zipEntry struct {
	name     string
	method   uint16
	modified time.Time
	data     []byte
}

// docxPackage is an OOXML zip kept in its original entry order.
type docxPackage struct {
	entries   []*zipEntry
	index     map[string]*zipEntry
	drawingID int
}

func readPackage(data []byte) (*docxPackage, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	pkg := &docxPackage{index: make(map[string]*zipEntry, len(zr.File)), drawingID: 1000}
	for _, zf := range zr.File {
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", zf.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", zf.Name, err)
		}
		e := &zipEntry{name: zf.Name, method: zf.Method, modified: zf.Modified, data: content}
		pkg.entries = append(pkg.entries, e)
		pkg.index[zf.Name] = e
	}
	return pkg, nil
}

func (p *docxPackage) get(name string) (*zipEntry, bool) {
	e, ok := p.index[name]
	return e, ok
}

func (p *docxPackage) put(name string, data []byte) {
	if e, ok := p.index[name]; ok {
		e.data = data
		return
	}
	var modified time.Time
	if main, ok := p.index[documentPart]; ok {
		modified = main.modified
	}
	e := &zipEntry{name: name, method: zip.Deflate, modified: modified, data: data}
	p.entries = append(p.entries, e)
	p.index[name] = e
}

func (p *docxPackage) uniqueName(prefix, ext string) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s%d%s", prefix, n, ext)
		if _, ok := p.index[name]; !ok {
			return name
		}
	}
}

func (p *docxPackage) nextDrawingID() int {
	p.drawingID++
	return p.drawingID
}

func relsName(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

func (p *docxPackage) addRelationship(part, target string) (string, error) {
	name := relsName(part)
	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
	if e, ok := p.get(name); ok {
		rels = string(e.data)
	}

	end := strings.LastIndex(rels, "</Relationships>")
	if end < 0 {
		return "", fmt.Errorf("%s: missing </Relationships>", name)
	}

	var id string
	for n := 1; ; n++ {
		id = fmt.Sprintf("rIdImg%d", n)
		if !strings.Contains(rels, `Id="`+id+`"`) {
			break
		}
	}
	rel := fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, id, relImage, target)
	p.put(name, []byte(rels[:end]+rel+rels[end:]))
	return id, nil
}

func (p *docxPackage) ensureDefaultContentType(ext, contentType string) error {
	e, ok := p.get(contentTypesPart)
	if !ok {
		return fmt.Errorf("missing %s", contentTypesPart)
	}
	types := string(e.data)
	if strings.Contains(strings.ToLower(types), `extension="`+ext+`"`) {
		return nil
	}
	end := strings.LastIndex(types, "</Types>")
	if end < 0 {
		return fmt.Errorf("%s: missing </Types>", contentTypesPart)
	}
	def := fmt.Sprintf(`<Default Extension="%s" ContentType="%s"/>`, ext, contentType)
	p.put(contentTypesPart, []byte(types[:end]+def+types[end:]))
	return nil
}

func (p *docxPackage) bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range p.entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   e.method,
			Modified: e.modified,
		})
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", e.name, err)
		}
		if len(e.data) == 0 {
			continue
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return buf.Bytes(), nil
}
