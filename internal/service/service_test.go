package service

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/auth"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/config"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/database"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/models"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/storage"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/templates"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockFetcher is a mock implementation of ImageFetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) []byte {
	args := m.Called(ctx, url)
	b, _ := args.Get(0).([]byte)
	return b
}

func setupTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewDatabase(database.Config{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, setupTestLogger()))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func setupTestStorage(t *testing.T) storage.Storage {
	t.Helper()
	var cfg config.Config
	cfg.Storage.Type = storage.StorageTypeLocal
	cfg.Storage.BasePath = t.TempDir()
	st, err := storage.NewStorageFromConfig(cfg, setupTestLogger())
	require.NoError(t, err)
	return st
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// buildDOCX assembles a minimal word document whose body is one paragraph
// per line of text.
func buildDOCX(t *testing.T, lines ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, l := range lines {
		body.WriteString("<w:p><w:r><w:t>" + l + "</w:t></w:r></w:p>")
	}
	parts := [][2]string{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
			`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>` +
			body.String() + `</w:body></w:document>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p[0])
		require.NoError(t, err)
		_, err = w.Write([]byte(p[1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func documentXML(t *testing.T, docx []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(data)
		}
	}
	t.Fatal("document.xml missing")
	return ""
}

func publishedAta(t *testing.T, db *gorm.DB, year, number int) {
	t.Helper()
	y, n := year, number
	require.NoError(t, db.Create(&models.Ata{
		Status: models.AtaPublished,
		Number: &n,
		Year:   &y,
		Title:  "Sessão",
		Date:   date(year, time.March, number),
	}).Error)
}

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository[models.Member](setupTestDB(t), "member", "name ASC", setupTestLogger())

	m := &models.Member{Name: "Carlos", Category: models.CategoryDeMolay, Status: "ativo"}
	require.NoError(t, repo.Create(ctx, m))
	assert.NotZero(t, m.ID)

	got, err := repo.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carlos", got.Name)

	updated, err := repo.Update(ctx, m.ID, &models.Member{Name: "Carlos Lima", Category: models.CategorySenior, Status: "ativo"})
	require.NoError(t, err)
	assert.Equal(t, "Carlos Lima", updated.Name)
	assert.Equal(t, models.CategorySenior, updated.Category)
	assert.Equal(t, m.CreatedAt.Unix(), updated.CreatedAt.Unix())

	require.NoError(t, repo.Delete(ctx, m.ID))
	_, err = repo.Get(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, m.ID), ErrNotFound)
}

func TestRepositoryRejectsInvalid(t *testing.T) {
	repo := NewRepository[models.Member](setupTestDB(t), "member", "", setupTestLogger())
	err := repo.Create(context.Background(), &models.Member{})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository[models.Member](setupTestDB(t), "member", "name ASC", setupTestLogger())
	for _, name := range []string{"Eva", "Bia", "Caio", "Ana", "Davi"} {
		require.NoError(t, repo.Create(ctx, &models.Member{Name: name, Category: models.CategoryDeMolay, Status: "ativo", Public: name != "Caio"}))
	}

	page, err := repo.List(ctx, ListParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Caio", page.Items[0].Name)
	assert.Equal(t, "Davi", page.Items[1].Name)

	public, err := repo.List(ctx, ListParams{Filters: map[string]interface{}{"public": true}})
	require.NoError(t, err)
	assert.Equal(t, int64(4), public.Total)
	assert.Equal(t, defaultPageSize, public.PageSize)

	big, err := repo.List(ctx, ListParams{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, big.PageSize)
}

func TestAtaCreateIsAlwaysDraft(t *testing.T) {
	ctx := context.Background()
	s := NewAtaService(setupTestDB(t), setupTestLogger())

	n, y := 7, 2024
	a := &models.Ata{Title: "Sessão", Date: date(2024, time.May, 1), Status: models.AtaPublished, Number: &n, Year: &y}
	require.NoError(t, s.Create(ctx, a))

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AtaDraft, got.Status)
	assert.Nil(t, got.Number)
	assert.Nil(t, got.Year)
}

func TestAtaUpdateKeepsLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewAtaService(setupTestDB(t), setupTestLogger())

	a := &models.Ata{Title: "Sessão", Date: date(2024, time.May, 1)}
	require.NoError(t, s.Create(ctx, a))
	_, err := s.Publish(ctx, a.ID)
	require.NoError(t, err)

	updated, err := s.Update(ctx, a.ID, &models.Ata{Title: "Sessão Magna", Date: date(2024, time.May, 1), Status: models.AtaDraft})
	require.NoError(t, err)
	assert.Equal(t, "Sessão Magna", updated.Title)
	assert.Equal(t, models.AtaPublished, updated.Status)
	require.NotNil(t, updated.Number)
	assert.Equal(t, 1, *updated.Number)
	assert.NotNil(t, updated.PublishedAt)
}

func TestAtaNumberingPerYear(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	s := NewAtaService(db, setupTestLogger())
	for n := 1; n <= 3; n++ {
		publishedAta(t, db, 2024, n)
	}

	first := &models.Ata{Title: "Primeira", Date: date(2025, time.February, 10)}
	second := &models.Ata{Title: "Segunda", Date: date(2025, time.March, 10)}
	draft := &models.Ata{Title: "Rascunho", Date: date(2025, time.April, 10)}
	for _, a := range []*models.Ata{first, second, draft} {
		require.NoError(t, s.Create(ctx, a))
	}

	p1, err := s.Publish(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, *p1.Number)
	assert.Equal(t, 2025, *p1.Year)

	p2, err := s.Publish(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, *p2.Number)

	d, err := s.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Nil(t, d.Number)
	assert.Equal(t, models.AtaDraft, d.Status)

	older := &models.Ata{Title: "Atrasada", Date: date(2024, time.December, 20)}
	require.NoError(t, s.Create(ctx, older))
	p4, err := s.Publish(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, *p4.Number)
	assert.Equal(t, 2024, *p4.Year)
}

func TestAtaNumbersOfDeletedAtasAreNotReused(t *testing.T) {
	ctx := context.Background()
	s := NewAtaService(setupTestDB(t), setupTestLogger())

	a := &models.Ata{Title: "A", Date: date(2025, time.January, 5)}
	require.NoError(t, s.Create(ctx, a))
	_, err := s.Publish(ctx, a.ID)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, a.ID))

	b := &models.Ata{Title: "B", Date: date(2025, time.January, 12)}
	require.NoError(t, s.Create(ctx, b))
	pb, err := s.Publish(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, *pb.Number)
}

func TestAtaPublishTwice(t *testing.T) {
	ctx := context.Background()
	s := NewAtaService(setupTestDB(t), setupTestLogger())

	a := &models.Ata{Title: "A", Date: date(2025, time.January, 5)}
	require.NoError(t, s.Create(ctx, a))
	_, err := s.Publish(ctx, a.ID)
	require.NoError(t, err)

	_, err = s.Publish(ctx, a.ID)
	assert.ErrorIs(t, err, ErrAlreadyPublished)

	_, err = s.Publish(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAtaPublishRetriesWhenNumberIsTaken(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	s := NewAtaService(db, setupTestLogger())
	publishedAta(t, db, 2026, 1)
	publishedAta(t, db, 2026, 2)

	a := &models.Ata{Title: "Sessão", Date: date(2026, time.July, 4)}
	require.NoError(t, s.Create(ctx, a))

	// the first read misses number 2, as if another publish committed it
	// between the read and the write
	reads := 0
	s.lastNumber = func(tx *gorm.DB, year int) (int, error) {
		reads++
		if reads == 1 {
			return 1, nil
		}
		return maxAtaNumber(tx, year)
	}

	published, err := s.Publish(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reads)
	assert.Equal(t, 3, *published.Number)
	assert.Equal(t, 2026, *published.Year)
}

func TestAtaPublishGivesUpAfterRepeatedConflicts(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	s := NewAtaService(db, setupTestLogger())
	publishedAta(t, db, 2026, 1)

	a := &models.Ata{Title: "Sessão", Date: date(2026, time.July, 4)}
	require.NoError(t, s.Create(ctx, a))

	reads := 0
	s.lastNumber = func(tx *gorm.DB, year int) (int, error) {
		reads++
		return 0, nil
	}

	_, err := s.Publish(ctx, a.ID)
	assert.ErrorIs(t, err, ErrPublishConflict)
	assert.Equal(t, publishAttempts, reads)

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AtaDraft, got.Status)
	assert.Nil(t, got.Number)
}

func TestAtaConcurrentPublishGivesUniqueNumbers(t *testing.T) {
	ctx := context.Background()
	s := NewAtaService(setupTestDB(t), setupTestLogger())

	const n = 6
	ids := make([]uint, n)
	for i := range ids {
		a := &models.Ata{Title: "Sessão", Date: date(2026, time.June, i+1)}
		require.NoError(t, s.Create(ctx, a))
		ids[i] = a.ID
	}

	var wg sync.WaitGroup
	numbers := make([]int, n)
	errs := make([]error, n)
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := s.Publish(ctx, id)
			errs[i] = err
			if err == nil {
				numbers[i] = *a.Number
			}
		}()
	}
	wg.Wait()

	seen := map[int]bool{}
	for i := range ids {
		require.NoError(t, errs[i])
		assert.False(t, seen[numbers[i]], "number %d assigned twice", numbers[i])
		seen[numbers[i]] = true
	}
	for k := 1; k <= n; k++ {
		assert.True(t, seen[k], "number %d missing", k)
	}
}

func TestAssemblerHolderTieBreak(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Profile{UserID: "u1", Name: "Primeiro", Role: "tesoureiro"}).Error)
	require.NoError(t, db.Create(&models.Profile{UserID: "u2", Name: "Segundo", Role: "tesoureiro"}).Error)

	a := NewAssembler(db, nil, config.Chapter{}, setupTestLogger())
	p := a.Holder(ctx, "tesoureiro")
	require.NotNil(t, p)
	assert.Equal(t, "Primeiro", p.Name)
	assert.Nil(t, a.Holder(ctx, "escrivao"))
}

func TestAssemblerValues(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	sig := samplePNG(t, 10, 5)
	require.NoError(t, db.Create(&models.Profile{UserID: "u1", Name: "João", Role: "mestre_conselheiro", SignatureURL: "https://img/joao.png"}).Error)
	require.NoError(t, db.Create(&models.Profile{UserID: "u2", Name: "Pedro", Role: "escrivao", SignatureURL: "https://img/missing.png"}).Error)

	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, "https://img/joao.png").Return(sig)
	fetcher.On("Fetch", mock.Anything, "https://img/missing.png").Return(nil)

	a := NewAssembler(db, fetcher, config.Chapter{Name: "Capítulo", Number: "862", City: "Porto Velho"}, setupTestLogger())
	a.now = func() time.Time { return date(2025, time.March, 9) }

	entry := templates.Entry{Key: "r", Roles: []templates.RoleTag{
		{Role: "mestre_conselheiro", NameTag: "nome_mestre", SignatureTag: "assinatura_mestre"},
		{Role: "escrivao", NameTag: "nome_escrivao", SignatureTag: "assinatura_escrivao"},
		{Role: "tesoureiro", NameTag: "nome_tesoureiro", SignatureTag: "assinatura_tesoureiro"},
	}}
	values, err := a.Values(ctx, entry)
	require.NoError(t, err)

	assert.Equal(t, "João", values["nome_mestre"].String())
	assert.Equal(t, sig, values["assinatura_mestre"].Bytes())
	assert.Equal(t, "Pedro", values["nome_escrivao"].String())
	assert.True(t, values["assinatura_escrivao"].IsImage())
	assert.Empty(t, values["assinatura_escrivao"].Bytes())
	assert.Equal(t, "", values["nome_tesoureiro"].String())
	assert.Equal(t, "09/03/2025", values["data"].String())
	assert.Equal(t, "março", values["mes"].String())
	assert.Equal(t, "2025", values["ano"].String())
	assert.Equal(t, "Porto Velho", values["cidade"].String())
	fetcher.AssertExpectations(t)
}

type reportFixture struct {
	db      *gorm.DB
	storage storage.Storage
	reports *ReportService
	atas    *AtaService
}

func newReportFixture(t *testing.T, archive bool) *reportFixture {
	t.Helper()
	db := setupTestDB(t)
	st := setupTestStorage(t)
	logger := setupTestLogger()
	store := templates.NewStore(st, config.Templates{Prefix: "templates", AssetsPrefix: "assets", Catalog: "catalog.yaml", Logo: "logo.png"}, logger)
	chapter := config.Chapter{Name: "Capítulo Cavaleiros do Guaporé", Number: "862"}
	assembler := NewAssembler(db, new(MockFetcher), chapter, logger)
	reports := NewReportService(db, store, assembler, st, auth.DefaultPolicy, ReportConfig{
		Chapter:   chapter,
		Documents: config.Documents{Archive: archive, Prefix: "documents"},
	}, logger)
	return &reportFixture{db: db, storage: st, reports: reports, atas: NewAtaService(db, logger)}
}

func (f *reportFixture) saveTemplate(t *testing.T, name string, data []byte) {
	t.Helper()
	require.NoError(t, f.storage.Save(context.Background(), "templates/"+name, bytes.NewReader(data)))
}

var escrivao = &auth.Identity{UserID: "u-escrivao", Role: auth.RoleEscrivao}

func TestGenerateTemplateChecksRolesBeforeLoading(t *testing.T) {
	f := newReportFixture(t, false)
	membro := &auth.Identity{UserID: "u", Role: auth.RoleMembro}

	_, err := f.reports.GenerateTemplate(context.Background(), membro, "relatorio-escrivao")
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = f.reports.GenerateTemplate(context.Background(), nil, "relatorio-escrivao")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestGenerateTemplateMissingFile(t *testing.T) {
	f := newReportFixture(t, false)

	_, err := f.reports.GenerateTemplate(context.Background(), escrivao, "relatorio-escrivao")
	assert.ErrorIs(t, err, templates.ErrTemplateNotFound)

	_, err = f.reports.GenerateTemplate(context.Background(), escrivao, "nao-existe")
	assert.ErrorIs(t, err, templates.ErrUnknownTemplate)
}

func TestGenerateTemplateFillsRoleHolders(t *testing.T) {
	f := newReportFixture(t, false)
	require.NoError(t, f.db.Create(&models.Profile{UserID: "u1", Name: "João & Filhos", Role: "mestre_conselheiro"}).Error)
	f.saveTemplate(t, "relatorio-escrivao.docx", buildDOCX(t, "Mestre: {nome_mestre}", "Escrivão: {nome_escrivao}{%assinatura_escrivao}"))

	doc, err := f.reports.GenerateTemplate(context.Background(), escrivao, "relatorio-escrivao")
	require.NoError(t, err)
	assert.Equal(t, "relatorio-escrivao.docx", doc.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", doc.MimeType)

	xml := documentXML(t, doc.Content)
	assert.Contains(t, xml, "Mestre: João &amp; Filhos")
	assert.NotContains(t, xml, "{")
}

func TestAtaDOCX(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t, false)
	f.saveTemplate(t, "modelo ata.docx", buildDOCX(t, "ATA {numero_ata}", "{titulo} em {data_ata}", "{presentes}"))

	a := &models.Ata{
		Title: "Sessão Ordinária",
		Date:  date(2025, time.March, 9),
		Attendees: models.Attendees{
			{Name: "Ana", Category: models.CategoryDeMolay},
			{Name: "Beto", Category: models.CategoryMacom},
		},
	}
	require.NoError(t, f.atas.Create(ctx, a))
	_, err := f.atas.Publish(ctx, a.ID)
	require.NoError(t, err)

	doc, err := f.reports.AtaDOCX(ctx, escrivao, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "ata-001-2025.docx", doc.Filename)

	xml := documentXML(t, doc.Content)
	assert.Contains(t, xml, "ATA 001/2025")
	assert.Contains(t, xml, "Sessão Ordinária em 09/03/2025")
	assert.Contains(t, xml, "<w:br/>")
}

func TestAtaPDF(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t, false)
	a := &models.Ata{Title: "Sessão", Date: date(2025, time.March, 9), Content: "Texto."}
	require.NoError(t, f.atas.Create(ctx, a))

	doc, err := f.reports.AtaPDF(ctx, escrivao, a.ID)
	require.NoError(t, err)
	assert.Equal(t, MimePDF, doc.MimeType)
	assert.Equal(t, "ata-rascunho-1.pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF-")))

	_, err = f.reports.AtaPDF(ctx, escrivao, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRollCallPDF(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t, false)
	m := &models.Member{Name: "Ana", Category: models.CategoryDeMolay, Status: "ativo"}
	require.NoError(t, f.db.Create(m).Error)
	rc := &models.RollCall{Date: date(2025, time.April, 2), Presence: models.Presence{"1": true}}
	require.NoError(t, f.db.Create(rc).Error)

	doc, err := f.reports.RollCallPDF(ctx, escrivao, rc.ID)
	require.NoError(t, err)
	assert.Equal(t, "chamada-2025-04-02.pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF-")))
}

func TestLedgerPDF(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t, false)
	tesoureiro := &auth.Identity{UserID: "t", Role: auth.RoleTesoureiro}

	_, err := f.reports.LedgerPDF(ctx, escrivao, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = f.reports.LedgerPDF(ctx, tesoureiro, date(2025, time.March, 1), date(2025, time.February, 1))
	assert.ErrorIs(t, err, ErrInvalid)

	require.NoError(t, f.db.Create(&models.FinanceEntry{Date: date(2025, time.March, 31), Description: "Mensalidades", Type: models.EntryIncome, Amount: 150}).Error)
	doc, err := f.reports.LedgerPDF(ctx, tesoureiro, date(2025, time.March, 1), date(2025, time.March, 31))
	require.NoError(t, err)
	assert.Equal(t, "relatorio-financeiro-2025-03-01-a-2025-03-31.pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF-")))
}

func TestPeriodLabel(t *testing.T) {
	from, to := date(2025, time.January, 1), date(2025, time.June, 30)
	assert.Equal(t, "Período: 01/01/2025 a 30/06/2025", PeriodLabel(from, to))
	assert.Equal(t, "A partir de 01/01/2025", PeriodLabel(from, time.Time{}))
	assert.Equal(t, "Até 30/06/2025", PeriodLabel(time.Time{}, to))
	assert.Equal(t, "Todos os lançamentos", PeriodLabel(time.Time{}, time.Time{}))
}

func TestArchive(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t, true)
	admin := &auth.Identity{UserID: "root", Role: auth.RoleAdmin}
	a := &models.Ata{Title: "Sessão", Date: date(2025, time.March, 9)}
	require.NoError(t, f.atas.Create(ctx, a))

	generated, err := f.reports.AtaPDF(ctx, admin, a.ID)
	require.NoError(t, err)

	list, err := f.reports.ListDocuments(ctx, admin, ListParams{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	rec := list.Items[0]
	assert.Equal(t, "ata_pdf", rec.Kind)
	assert.Equal(t, "root", rec.CreatedBy)
	assert.Equal(t, generated.Size(), rec.Size)
	assert.True(t, strings.HasPrefix(rec.FileKey, "documents/"))
	assert.True(t, strings.HasSuffix(rec.FileKey, ".pdf"))

	opened, err := f.reports.OpenDocument(ctx, admin, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, generated.Content, opened.Content)
	assert.Equal(t, generated.Filename, opened.Filename)

	_, err = f.reports.ListDocuments(ctx, &auth.Identity{UserID: "m", Role: auth.RoleMembro}, ListParams{})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	require.NoError(t, f.reports.DeleteDocument(ctx, admin, rec.ID))
	exists, err := f.storage.Exists(ctx, rec.FileKey)
	require.NoError(t, err)
	assert.False(t, exists)
	_, err = f.reports.OpenDocument(ctx, admin, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
