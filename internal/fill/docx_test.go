package fill

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
	contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`
	docRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
)

func buildDOCX(t *testing.T, body string, extra map[string]string) []byte {
	t.Helper()
	parts := []struct{ name, data string }{
		{contentTypesPart, contentTypes},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><w:document ` + wordNS + `><w:body>` + body + `</w:body></w:document>`},
		{"word/_rels/document.xml.rels", docRels},
	}
	for name, data := range extra {
		parts = append(parts, struct{ name, data string }{name, data})
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(p.data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func readPart(t *testing.T, docx []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(data)
		}
	}
	return ""
}

func hasPart(t *testing.T, docx []byte, name string) bool {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

func charData(t *testing.T, doc string) string {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if cd, ok := tok.(xml.CharData); ok {
			b.Write(cd)
		}
	}
	return b.String()
}

func paragraph(runs ...string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	for _, r := range runs {
		b.WriteString("<w:r><w:t>" + r + "</w:t></w:r>")
	}
	b.WriteString("</w:p>")
	return b.String()
}

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestDOCXFillText(t *testing.T) {
	tpl := buildDOCX(t, paragraph("Mestre: {nome_mestre}, Escrivão: {nome_escrivao}"), nil)
	out, err := NewDOCXFiller(DefaultOptions()).Fill(tpl, Values{
		"nome_mestre":   Text("João Silva"),
		"nome_escrivao": Text("Pedro Souza"),
	})
	require.NoError(t, err)

	text := charData(t, readPart(t, out, documentPart))
	assert.Equal(t, "Mestre: João Silva, Escrivão: Pedro Souza", text)
}

func TestDOCXFillSplitRuns(t *testing.T) {
	body := `<w:p><w:r><w:t>Assinado por {nome_</w:t></w:r>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>mes</w:t></w:r>` +
		`<w:r><w:t>tre} em {data}</w:t></w:r></w:p>`
	tpl := buildDOCX(t, body, nil)

	out, err := NewDOCXFiller(DefaultOptions()).Fill(tpl, Values{
		"nome_mestre": Text("João"),
		"data":        Text("10/02/2025"),
	})
	require.NoError(t, err)

	doc := readPart(t, out, documentPart)
	assert.Equal(t, "Assinado por João em 10/02/2025", charData(t, doc))
	assert.NotContains(t, doc, "nome_")
	assert.Contains(t, doc, `<w:t xml:space="preserve">Assinado por João</w:t>`)
}

func TestDOCXFillCloserVariantsAndUnknownTags(t *testing.T) {
	tpl := buildDOCX(t, paragraph("{nome_mestre) | {sem_valor} | {sem_valor) | {%sem_imagem}"), nil)

	out, err := NewDOCXFiller(DefaultOptions()).Fill(tpl, Values{"nome_mestre": Text("João")})
	require.NoError(t, err)

	assert.Equal(t, "João |  | {sem_valor) | ", charData(t, readPart(t, out, documentPart)))
}

func TestDOCXFillKeysOutsideSnakeCase(t *testing.T) {
	tpl := buildDOCX(t, paragraph("{NomeMestre} / {nome-mestre} / {Data} / {nome.escrivao} / {nome_mestre}"), nil)

	out, err := NewDOCXFiller(DefaultOptions()).Fill(tpl, Values{
		"NomeMestre":    Text("Ana"),
		"nome-mestre":   Text("Bruno"),
		"Data":          Text("10/02/2025"),
		"nome.escrivao": Text("Davi"),
		"nome_mestre":   Text("Caio"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana / Bruno / 10/02/2025 / Davi / Caio", charData(t, readPart(t, out, documentPart)))
}

func TestDOCXFillTagsAreCaseSensitive(t *testing.T) {
	tpl := buildDOCX(t, paragraph("[{Nome}] [{nome}]"), nil)

	out, err := NewDOCXFiller(DefaultOptions()).Fill(tpl, Values{"nome": Text("João")})
	require.NoError(t, err)

	assert.Equal(t, "[] [João]", charData(t, readPart(t, out, documentPart)))
}

func TestDOCXFillUnmappedParenCloserStaysLiteral(t *testing.T) {
	tpl := buildDOCX(t, paragraph("valor: {desconhecido) e {conhecido)"), nil)

	out, err := NewDOCXFiller(DefaultOptions()).Fill(tpl, Values{"conhecido": Text("sim")})
	require.NoError(t, err)

	doc := readPart(t, out, documentPart)
	assert.NoError(t, checkXML([]byte(doc)))
	assert.Equal(t, "valor: {desconhecido) e sim", charData(t, doc))

	// the literal text is not taken as a placeholder on a later fill
	again, err := NewDOCXFiller(DefaultOptions()).Fill(out, Values{"desconhecido": Text("não")})
	require.NoError(t, err)
	assert.True(t, bytes.Equal(out, again))
}

func TestDOCXFillEscapesMarkup(t *testing.T) {
	value := `A & B <c> "d" 'e'`
	tpl := buildDOCX(t, paragraph("{texto}"), nil)

	out, err := NewDOCXFiller(DefaultOptions()).Fill(tpl, Values{"texto": Text(value)})
	require.NoError(t, err)

	doc := readPart(t, out, documentPart)
	assert.NoError(t, checkXML([]byte(doc)))
	assert.Equal(t, value, charData(t, doc))
}

func TestDOCXFillNewlines(t *testing.T) {
	tpl := buildDOCX(t, paragraph("{texto}"), nil)

	out, err := NewDOCXFiller(DefaultOptions()).Fill(tpl, Values{"texto": Text("linha 1\nlinha 2")})
	require.NoError(t, err)

	doc := readPart(t, out, documentPart)
	assert.Contains(t, doc, `linha 1</w:t><w:br/><w:t xml:space="preserve">linha 2</w:t>`)
	assert.NoError(t, checkXML([]byte(doc)))
}

func TestDOCXFillHeadersAndFooters(t *testing.T) {
	header := `<?xml version="1.0" encoding="UTF-8"?><w:hdr ` + wordNS + `>` + paragraph("Capítulo {numero_capitulo}") + `</w:hdr>`
	tpl := buildDOCX(t, paragraph("corpo"), map[string]string{"word/header1.xml": header})

	out, err := NewDOCXFiller(DefaultOptions()).Fill(tpl, Values{"numero_capitulo": Text("862")})
	require.NoError(t, err)

	assert.Equal(t, "Capítulo 862", charData(t, readPart(t, out, "word/header1.xml")))
	assert.Equal(t, "corpo", charData(t, readPart(t, out, documentPart)))
}

func TestDOCXFillIsIdempotent(t *testing.T) {
	tpl := buildDOCX(t, paragraph("{nome_mestre} {ausente}")+paragraph("{nome_", "mestre}"), nil)
	filler := NewDOCXFiller(DefaultOptions())
	values := Values{"nome_mestre": Text("João & Cia")}

	first, err := filler.Fill(tpl, values)
	require.NoError(t, err)
	second, err := filler.Fill(first, values)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second))

	plain := buildDOCX(t, paragraph("sem marcadores"), nil)
	same, err := filler.Fill(plain, values)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(plain, same))
}

func TestDOCXFillEmbedsImage(t *testing.T) {
	tpl := buildDOCX(t, paragraph("Assinatura: {%assinatura_mestre}"), nil)

	out, err := NewDOCXFiller(DefaultOptions()).Fill(tpl, Values{
		"assinatura_mestre": Image(samplePNG(t, 300, 100)),
	})
	require.NoError(t, err)

	doc := readPart(t, out, documentPart)
	assert.NoError(t, checkXML([]byte(doc)))
	assert.NotContains(t, doc, "assinatura_mestre")
	assert.NotContains(t, doc, "fill-image")
	assert.Contains(t, doc, `<w:t xml:space="preserve">Assinatura: </w:t></w:r><w:r><w:drawing>`)
	// 300x100 fits the 150x60 box at 150x50
	assert.Contains(t, doc, `<wp:extent cx="1428750" cy="476250"/>`)
	assert.Contains(t, doc, `r:embed="rIdImg1"`)

	assert.True(t, hasPart(t, out, "word/media/fill_image1.png"))
	assert.Contains(t, readPart(t, out, "word/_rels/document.xml.rels"), `Id="rIdImg1"`)
	assert.Contains(t, readPart(t, out, "word/_rels/document.xml.rels"), `Target="media/fill_image1.png"`)
	assert.Contains(t, readPart(t, out, contentTypesPart), `<Default Extension="png" ContentType="image/png"/>`)
}

func TestDOCXFillMissingImageRemovesTag(t *testing.T) {
	tpl := buildDOCX(t, paragraph("Assinatura: {%assinatura_mestre}"), nil)

	out, err := NewDOCXFiller(DefaultOptions()).Fill(tpl, Values{"assinatura_mestre": Image(nil)})
	require.NoError(t, err)

	doc := readPart(t, out, documentPart)
	assert.Equal(t, "Assinatura: ", charData(t, doc))
	assert.NotContains(t, doc, "<w:drawing>")
	assert.False(t, hasPart(t, out, "word/media/fill_image1.png"))
	assert.NotContains(t, readPart(t, out, contentTypesPart), `Extension="png"`)
}

func TestDOCXFillMalformed(t *testing.T) {
	filler := NewDOCXFiller(DefaultOptions())

	_, err := filler.Fill([]byte("not a zip"), nil)
	assert.ErrorIs(t, err, ErrMalformedTemplate)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err = zw.Create("other.txt")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	_, err = filler.Fill(buf.Bytes(), nil)
	assert.ErrorIs(t, err, ErrMalformedTemplate)

	broken := buildDOCX(t, "<w:p><w:r><w:t>{x}</w:r></w:p>", nil)
	_, err = filler.Fill(broken, nil)
	assert.ErrorIs(t, err, ErrMalformedTemplate)
}

func TestForFormat(t *testing.T) {
	f, err := ForFormat("docx", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, MimeDOCX, f.MimeType())
	assert.Equal(t, ".docx", f.Extension())

	f, err = ForFormat("xlsx", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, MimeXLSX, f.MimeType())

	_, err = ForFormat("odt", DefaultOptions())
	assert.Error(t, err)
}
