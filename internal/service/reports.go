package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/auth"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/config"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/fill"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/imaging"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/models"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/pdf"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/storage"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/templates"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const MimePDF = "application/pdf"

// Document is a generated file ready to be sent.
type Document struct {
	Filename string
	MimeType string
	Content  []byte
}

// Size returns the content length in bytes.
func (d *Document) Size() int64 { return int64(len(d.Content)) }

// ReportService produces filled templates and PDFs, archiving them when
// configured to.
type ReportService struct {
	db        *gorm.DB
	templates *templates.Store
	assembler *Assembler
	storage   storage.Storage
	policy    auth.Policy
	options   fill.Options
	chapter   config.Chapter
	documents config.Documents
	archive   *Repository[models.Document]
	logger    *logrus.Logger
	now       func() time.Time
}

// ReportConfig groups the settings ReportService reads.
type ReportConfig struct {
	Chapter    config.Chapter
	Documents  config.Documents
	Signatures config.Signatures
}

func NewReportService(
	db *gorm.DB,
	store *templates.Store,
	assembler *Assembler,
	st storage.Storage,
	policy auth.Policy,
	cfg ReportConfig,
	logger *logrus.Logger,
) *ReportService {
	return &ReportService{
		db:        db,
		templates: store,
		assembler: assembler,
		storage:   st,
		policy:    policy,
		options:   FillOptions(cfg.Signatures),
		chapter:   cfg.Chapter,
		documents: cfg.Documents,
		archive:   NewRepository[models.Document](db, "document", "generated_at DESC, id DESC", logger),
		logger:    logger,
		now:       time.Now,
	}
}

// FillOptions converts signature settings, keeping defaults for unset sizes.
func FillOptions(sig config.Signatures) fill.Options {
	opts := fill.DefaultOptions()
	if sig.DocxMaxWidth > 0 && sig.DocxMaxHeight > 0 {
		opts.DocxBox = imaging.Size{Width: sig.DocxMaxWidth, Height: sig.DocxMaxHeight}
	}
	if sig.DocxFallbackW > 0 && sig.DocxFallbackH > 0 {
		opts.DocxFallback = imaging.Size{Width: sig.DocxFallbackW, Height: sig.DocxFallbackH}
	}
	if sig.XLSXWidth > 0 && sig.XLSXHeight > 0 {
		opts.XLSXSize = imaging.Size{Width: sig.XLSXWidth, Height: sig.XLSXHeight}
	}
	return opts
}

// Templates lists the catalog with the file each entry would load.
func (s *ReportService) Templates(ctx context.Context, id *auth.Identity) ([]templates.Availability, error) {
	if err := s.policy.Authorize(id, auth.ResourceTemplates, auth.ActionRead); err != nil {
		return nil, err
	}
	return s.templates.Available(ctx)
}

// GenerateTemplate fills the template key with role holders and chapter data.
func (s *ReportService) GenerateTemplate(ctx context.Context, id *auth.Identity, key string) (*Document, error) {
	entry, err := s.authorizeTemplate(ctx, id, key)
	if err != nil {
		return nil, err
	}
	values, err := s.assembler.Values(ctx, entry)
	if err != nil {
		return nil, err
	}
	doc, err := s.fill(ctx, entry, values)
	if err != nil {
		return nil, err
	}
	s.store(ctx, id, "template", entry.Title, doc, models.JSON{"template": key})
	return doc, nil
}

func (s *ReportService) authorizeTemplate(ctx context.Context, id *auth.Identity, key string) (templates.Entry, error) {
	if err := s.policy.Authorize(id, auth.ResourceTemplates, auth.ActionRead); err != nil {
		return templates.Entry{}, err
	}
	entry, err := s.templates.Entry(ctx, key)
	if err != nil {
		return templates.Entry{}, err
	}
	if err := auth.AuthorizeRoles(id, entry.AllowedRoles); err != nil {
		return templates.Entry{}, err
	}
	return entry, nil
}

func (s *ReportService) fill(ctx context.Context, entry templates.Entry, values fill.Values) (*Document, error) {
	data, path, err := s.templates.Load(ctx, entry)
	if err != nil {
		return nil, err
	}
	filler, err := fill.ForFormat(entry.Format, s.options)
	if err != nil {
		return nil, err
	}
	out, err := filler.Fill(data, values)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"template": entry.Key,
			"path":     path,
		}).Error("Failed to fill template")
		return nil, fmt.Errorf("failed to fill %s: %w", entry.Key, err)
	}

	s.logger.WithFields(logrus.Fields{
		"template": entry.Key,
		"path":     path,
		"size":     len(out),
	}).Info("Template filled")
	return &Document{Filename: entry.DownloadName(), MimeType: filler.MimeType(), Content: out}, nil
}

// AtaDOCX fills the minute template with the content of ata id.
func (s *ReportService) AtaDOCX(ctx context.Context, id *auth.Identity, ataID uint) (*Document, error) {
	entry, err := s.authorizeTemplate(ctx, id, "ata")
	if err != nil {
		return nil, err
	}
	a, err := s.ata(ctx, ataID)
	if err != nil {
		return nil, err
	}
	values, err := s.assembler.Values(ctx, entry)
	if err != nil {
		return nil, err
	}
	for tag, v := range AtaValues(a, s.chapterName()) {
		values[tag] = v
	}

	doc, err := s.fill(ctx, entry, values)
	if err != nil {
		return nil, err
	}
	doc.Filename = ataFilename(a, ".docx")
	s.store(ctx, id, "ata_docx", pdf.AtaHeading(a), doc, models.JSON{"ata_id": ataID})
	return doc, nil
}

// AtaValues are the tags of a minute template.
func AtaValues(a *models.Ata, chapter string) fill.Values {
	order, groups := a.AttendeesByCategory()
	var present []string
	for _, cat := range order {
		present = append(present, fmt.Sprintf("%s: %s.", cat.Label(), strings.Join(groups[cat], ", ")))
	}

	number := ""
	if a.Number != nil && a.Year != nil {
		number = fmt.Sprintf("%03d/%d", *a.Number, *a.Year)
	}
	date := ""
	if !a.Date.IsZero() {
		date = pdf.FormatDate(a.Date)
	}

	return fill.FromStrings(map[string]string{
		"numero_ata":        number,
		"cabecalho_ata":     pdf.AtaHeading(a),
		"titulo":            a.Title,
		"data_ata":          date,
		"abertura":          pdf.AtaDateSentence(a, chapter),
		"local":             a.Location,
		"hora_inicio":       a.StartTime,
		"hora_fim":          a.EndTime,
		"presentes":         strings.Join(present, "\n"),
		"presidente_sessao": a.PresidingName,
		"secretario":        a.SecretaryName,
		"expediente":        a.Correspondence,
		"ordem_do_dia":      a.Agenda,
		"palavra_livre":     a.OpenFloor,
		"conteudo":          a.Content,
	})
}

// AtaPDF renders ata id.
func (s *ReportService) AtaPDF(ctx context.Context, id *auth.Identity, ataID uint) (*Document, error) {
	if err := s.policy.Authorize(id, auth.ResourceAtas, auth.ActionRead); err != nil {
		return nil, err
	}
	a, err := s.ata(ctx, ataID)
	if err != nil {
		return nil, err
	}
	out, err := pdf.AtaPDF(a, s.header(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to render ata %d: %w", ataID, err)
	}
	doc := &Document{Filename: ataFilename(a, ".pdf"), MimeType: MimePDF, Content: out}
	s.store(ctx, id, "ata_pdf", pdf.AtaHeading(a), doc, models.JSON{"ata_id": ataID})
	return doc, nil
}

// RollCallPDF renders roll call rollCallID against the current members.
func (s *ReportService) RollCallPDF(ctx context.Context, id *auth.Identity, rollCallID uint) (*Document, error) {
	if err := s.policy.Authorize(id, auth.ResourceRollCalls, auth.ActionRead); err != nil {
		return nil, err
	}
	var rc models.RollCall
	if err := s.db.WithContext(ctx).First(&rc, rollCallID).Error; err != nil {
		return nil, lookupError("roll call", rollCallID, err)
	}
	var members []models.Member
	if err := s.db.WithContext(ctx).Order("name ASC, id ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	out, err := pdf.RollCallPDF(&rc, members, s.header(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to render roll call %d: %w", rollCallID, err)
	}
	doc := &Document{
		Filename: "chamada-" + rc.Date.Format("2006-01-02") + ".pdf",
		MimeType: MimePDF,
		Content:  out,
	}
	s.store(ctx, id, "rollcall_pdf", "Chamada "+pdf.FormatDate(rc.Date), doc, models.JSON{"rollcall_id": rollCallID})
	return doc, nil
}

// LedgerPDF renders the finance entries dated between from and to, both
// inclusive days. Zero bounds are open.
func (s *ReportService) LedgerPDF(ctx context.Context, id *auth.Identity, from, to time.Time) (*Document, error) {
	if err := s.policy.Authorize(id, auth.ResourceFinance, auth.ActionRead); err != nil {
		return nil, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, invalid(errors.New("period end is before its start"))
	}

	query := s.db.WithContext(ctx).Model(&models.FinanceEntry{})
	if !from.IsZero() {
		query = query.Where("date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("date < ?", to.AddDate(0, 0, 1))
	}
	var entries []models.FinanceEntry
	if err := query.Order("date ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list finance entries: %w", err)
	}

	out, err := pdf.LedgerPDF(entries, PeriodLabel(from, to), s.header(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to render ledger: %w", err)
	}
	doc := &Document{Filename: ledgerFilename(from, to), MimeType: MimePDF, Content: out}
	s.store(ctx, id, "ledger_pdf", "Relatório Financeiro", doc, models.JSON{
		"from": dateParam(from),
		"to":   dateParam(to),
	})
	return doc, nil
}

// PeriodLabel describes a ledger period.
func PeriodLabel(from, to time.Time) string {
	switch {
	case !from.IsZero() && !to.IsZero():
		return fmt.Sprintf("Período: %s a %s", pdf.FormatDate(from), pdf.FormatDate(to))
	case !from.IsZero():
		return "A partir de " + pdf.FormatDate(from)
	case !to.IsZero():
		return "Até " + pdf.FormatDate(to)
	default:
		return "Todos os lançamentos"
	}
}

func ledgerFilename(from, to time.Time) string {
	name := "relatorio-financeiro"
	if !from.IsZero() {
		name += "-" + from.Format("2006-01-02")
	}
	if !to.IsZero() {
		name += "-a-" + to.Format("2006-01-02")
	}
	return name + ".pdf"
}

func dateParam(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func ataFilename(a *models.Ata, ext string) string {
	if a.Number != nil && a.Year != nil {
		return fmt.Sprintf("ata-%03d-%d%s", *a.Number, *a.Year, ext)
	}
	return fmt.Sprintf("ata-rascunho-%d%s", a.ID, ext)
}

func (s *ReportService) ata(ctx context.Context, id uint) (*models.Ata, error) {
	var a models.Ata
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, lookupError("ata", id, err)
	}
	return &a, nil
}

func (s *ReportService) chapterName() string {
	return pdf.Header{Chapter: s.chapter.Name, Number: s.chapter.Number}.Name()
}

func (s *ReportService) header(ctx context.Context) pdf.Header {
	return pdf.Header{
		Chapter: s.chapter.Name,
		Number:  s.chapter.Number,
		City:    s.chapter.City,
		Logo:    s.templates.Logo(ctx),
	}
}

// store archives doc when archiving is enabled. Failures are logged and
// recorded, never returned.
func (s *ReportService) store(ctx context.Context, id *auth.Identity, kind, title string, doc *Document, params models.JSON) {
	if !s.documents.Archive || s.storage == nil {
		return
	}
	now := s.now()
	rec := &models.Document{
		Kind:        kind,
		Title:       title,
		Filename:    doc.Filename,
		MimeType:    doc.MimeType,
		Size:        doc.Size(),
		Status:      models.DocumentArchived,
		GeneratedAt: now,
		Parameters:  params,
	}
	if id != nil {
		rec.CreatedBy = id.UserID
	}

	key := s.storage.JoinPath(s.documents.Prefix, now.Format("2006"), now.Format("01"), uuid.NewString()+extension(doc.Filename))
	log := s.logger.WithFields(logrus.Fields{"kind": kind, "key": key})
	if err := s.storage.Save(ctx, key, bytes.NewReader(doc.Content)); err != nil {
		log.WithError(err).Warn("Failed to archive document")
		rec.Status = models.DocumentFailed
	} else {
		rec.FileKey = key
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		log.WithError(err).Warn("Failed to record archived document")
	}
}

func extension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}

// ListDocuments pages through the archive, newest first.
func (s *ReportService) ListDocuments(ctx context.Context, id *auth.Identity, params ListParams) (*List[models.Document], error) {
	if err := s.policy.Authorize(id, auth.ResourceDocuments, auth.ActionRead); err != nil {
		return nil, err
	}
	return s.archive.List(ctx, params)
}

// OpenDocument reads an archived document back.
func (s *ReportService) OpenDocument(ctx context.Context, id *auth.Identity, docID uint) (*Document, error) {
	if err := s.policy.Authorize(id, auth.ResourceDocuments, auth.ActionRead); err != nil {
		return nil, err
	}
	rec, err := s.archive.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !rec.HasFile() || s.storage == nil {
		return nil, notFound("document file", docID)
	}
	data, err := storage.ReadAll(ctx, s.storage, rec.FileKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("document file", docID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %d: %w", docID, err)
	}
	return &Document{Filename: rec.Filename, MimeType: rec.MimeType, Content: data}, nil
}

// DeleteDocument removes an archived document and its file.
func (s *ReportService) DeleteDocument(ctx context.Context, id *auth.Identity, docID uint) error {
	if err := s.policy.Authorize(id, auth.ResourceDocuments, auth.ActionWrite); err != nil {
		return err
	}
	rec, err := s.archive.Get(ctx, docID)
	if err != nil {
		return err
	}
	if rec.HasFile() && s.storage != nil {
		if err := s.storage.Delete(ctx, rec.FileKey); err != nil {
			return fmt.Errorf("failed to delete document file %d: %w", docID, err)
		}
	}
	return s.archive.Delete(ctx, docID)
}
