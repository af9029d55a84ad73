// Package templates resolves document templates and static assets kept in
// file storage.
package templates

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	FormatDOCX = "docx"
	FormatXLSX = "xlsx"
)

// RoleTag binds an organizational role to the tags its holder fills.
type RoleTag struct {
	Role         string `yaml:"role" json:"role"`
	NameTag      string `yaml:"name_tag" json:"name_tag"`
	SignatureTag string `yaml:"signature_tag" json:"signature_tag"`
}

// Entry describes one template.
type Entry struct {
	Key          string    `yaml:"key" json:"key"`
	Title        string    `yaml:"title" json:"title"`
	Format       string    `yaml:"format" json:"format"`
	Files        []string  `yaml:"files" json:"files"`
	Filename     string    `yaml:"filename" json:"filename"`
	Roles        []RoleTag `yaml:"roles" json:"roles"`
	AllowedRoles []string  `yaml:"allowed_roles" json:"allowed_roles"`
}

// Catalog lists the known templates.
type Catalog struct {
	Templates []Entry `yaml:"templates" json:"templates"`
}

// Lookup finds an entry by key.
func (c Catalog) Lookup(key string) (Entry, bool) {
	for _, e := range c.Templates {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// ParseCatalog decodes and validates a yaml catalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate checks keys, formats and file lists.
func (c Catalog) Validate() error {
	if len(c.Templates) == 0 {
		return errors.New("catalog has no templates")
	}
	seen := make(map[string]bool, len(c.Templates))
	for i, e := range c.Templates {
		if e.Key == "" {
			return fmt.Errorf("template %d: key cannot be empty", i)
		}
		if seen[e.Key] {
			return fmt.Errorf("template %q: duplicate key", e.Key)
		}
		seen[e.Key] = true
		if e.Format != FormatDOCX && e.Format != FormatXLSX {
			return fmt.Errorf("template %q: format must be docx or xlsx, got %q", e.Key, e.Format)
		}
		if len(e.Files) == 0 {
			return fmt.Errorf("template %q: no files", e.Key)
		}
	}
	return nil
}

// DownloadName is the attachment filename of a filled entry.
func (e Entry) DownloadName() string {
	if e.Filename != "" {
		return e.Filename
	}
	return e.Key + "." + e.Format
}

var (
	mestre     = RoleTag{Role: "mestre_conselheiro", NameTag: "nome_mestre", SignatureTag: "assinatura_mestre"}
	tesoureiro = RoleTag{Role: "tesoureiro", NameTag: "nome_tesoureiro", SignatureTag: "assinatura_tesoureiro"}
	presidente = RoleTag{Role: "presidente_conselho", NameTag: "nome_presidente", SignatureTag: "assinatura_presidente"}
	escrivao   = RoleTag{Role: "escrivao", NameTag: "nome_escrivao", SignatureTag: "assinatura_escrivao"}
	primeiro   = RoleTag{Role: "primeiro_conselheiro", NameTag: "nome_primeiro_conselheiro", SignatureTag: "assinatura_primeiro_conselheiro"}
	segundo    = RoleTag{Role: "segundo_conselheiro", NameTag: "nome_segundo_conselheiro", SignatureTag: "assinatura_segundo_conselheiro"}
)

// DefaultCatalog is used when storage holds no catalog file.
func DefaultCatalog() Catalog {
	return Catalog{Templates: []Entry{
		{
			Key:          "tesouraria-geral",
			Title:        "Tesouraria Geral",
			Format:       FormatXLSX,
			Files:        []string{"tesouraria geral.xlsx", "tesouraria-geral.xlsx", "tesouraria_geral.xlsx"},
			Filename:     "tesouraria-geral.xlsx",
			Roles:        []RoleTag{mestre, tesoureiro, presidente},
			AllowedRoles: []string{"admin", "tesoureiro", "mestre_conselheiro"},
		},
		{
			Key:          "relatorio-escrivao",
			Title:        "Relatório do Escrivão",
			Format:       FormatDOCX,
			Files:        []string{"relatorio escrivao.docx", "relatorio-escrivao.docx"},
			Filename:     "relatorio-escrivao.docx",
			Roles:        []RoleTag{mestre, escrivao},
			AllowedRoles: []string{"admin", "escrivao", "mestre_conselheiro"},
		},
		{
			Key:          "ata",
			Title:        "Ata",
			Format:       FormatDOCX,
			Files:        []string{"ata.docx", "modelo ata.docx"},
			Filename:     "ata.docx",
			Roles:        []RoleTag{mestre, escrivao},
			AllowedRoles: []string{"admin", "escrivao", "mestre_conselheiro"},
		},
		{
			Key:          "relatorio-mestre",
			Title:        "Relatório do Mestre Conselheiro",
			Format:       FormatDOCX,
			Files:        []string{"relatorio mestre.docx", "relatorio-mestre.docx"},
			Filename:     "relatorio-mestre.docx",
			Roles:        []RoleTag{mestre, primeiro, segundo},
			AllowedRoles: []string{"admin", "mestre_conselheiro"},
		},
	}}
}
