package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/config"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/fill"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/models"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/pdf"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/templates"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ImageFetcher downloads signature images. Failures yield nil.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) []byte
}

// Assembler builds substitution maps from role-tagged profiles.
type Assembler struct {
	db      *gorm.DB
	fetcher ImageFetcher
	chapter config.Chapter
	logger  *logrus.Logger
	now     func() time.Time
}

func NewAssembler(db *gorm.DB, fetcher ImageFetcher, chapter config.Chapter, logger *logrus.Logger) *Assembler {
	return &Assembler{
		db:      db,
		fetcher: fetcher,
		chapter: chapter,
		logger:  logger,
		now:     time.Now,
	}
}

// Holder returns the profile currently holding role, the lowest id winning
// when several do. A missing holder or a lookup failure yields nil.
func (a *Assembler) Holder(ctx context.Context, role string) *models.Profile {
	var p models.Profile
	err := a.db.WithContext(ctx).Where("role = ?", role).Order("id ASC").Take(&p).Error
	if err != nil {
		entry := a.logger.WithField("role", role)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry.Warn("No profile holds role")
		} else {
			entry.WithError(err).Warn("Role holder lookup failed")
		}
		return nil
	}
	return &p
}

// Values resolves every role of entry and adds the chapter and date tags.
func (a *Assembler) Values(ctx context.Context, entry templates.Entry) (fill.Values, error) {
	values := a.base()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, rt := range entry.Roles {
		g.Go(func() error {
			name, signature := a.resolve(gctx, rt)
			mu.Lock()
			defer mu.Unlock()
			if rt.NameTag != "" {
				values.SetText(rt.NameTag, name)
			}
			if rt.SignatureTag != "" {
				values.SetImage(rt.SignatureTag, signature)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assemble %s: %w", entry.Key, err)
	}
	return values, nil
}

func (a *Assembler) resolve(ctx context.Context, rt templates.RoleTag) (string, []byte) {
	p := a.Holder(ctx, rt.Role)
	if p == nil {
		return "", nil
	}
	var signature []byte
	if rt.SignatureTag != "" && p.SignatureURL != "" && a.fetcher != nil {
		signature = a.fetcher.Fetch(ctx, p.SignatureURL)
	}
	return p.Name, signature
}

func (a *Assembler) base() fill.Values {
	now := a.now()
	return fill.FromStrings(map[string]string{
		"capitulo":        a.chapter.Name,
		"numero_capitulo": a.chapter.Number,
		"cidade":          a.chapter.City,
		"data":            pdf.FormatDate(now),
		"dia":             strconv.Itoa(now.Day()),
		"mes":             pdf.MonthName(now.Month()),
		"ano":             strconv.Itoa(now.Year()),
	})
}
