package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/config"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/storage"

	"github.com/sirupsen/logrus"
)

var (
	// ErrTemplateNotFound matches *NotFoundError.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrUnknownTemplate is returned for keys the catalog does not list.
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrAssetNotFound is returned when a static asset is missing.
	ErrAssetNotFound = errors.New("asset not found")
)

// NotFoundError names the template and every path that was tried.
type NotFoundError struct {
	Key        string
	Candidates []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found, tried: %s", e.Key, strings.Join(e.Candidates, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrTemplateNotFound
}

// Availability tells whether a catalog entry resolves to a file.
type Availability struct {
	Entry     Entry  `json:"entry"`
	Available bool   `json:"available"`
	Path      string `json:"path,omitempty"`
}

// Store reads templates and assets. It never writes.
type Store struct {
	storage storage.Storage
	cfg     config.Templates
	logger  *logrus.Logger
}

func NewStore(st storage.Storage, cfg config.Templates, logger *logrus.Logger) *Store {
	return &Store{storage: st, cfg: cfg, logger: logger}
}

// Catalog returns the catalog file from storage, or the default catalog
// when there is none.
func (s *Store) Catalog(ctx context.Context) (Catalog, error) {
	if s.cfg.Catalog == "" {
		return DefaultCatalog(), nil
	}
	key := s.join(s.cfg.Prefix, s.cfg.Catalog)
	data, err := storage.ReadAll(ctx, s.storage, key)
	if errors.Is(err, storage.ErrNotFound) {
		return DefaultCatalog(), nil
	}
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog %s: %w", key, err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog %s: %w", key, err)
	}
	return c, nil
}

// Entry looks a template up by key.
func (s *Store) Entry(ctx context.Context, key string) (Entry, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return Entry{}, err
	}
	e, ok := c.Lookup(key)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, key)
	}
	return e, nil
}

// Candidates returns the paths tried for an entry, in order: every file
// under the templates prefix, then every file at the storage root.
func (s *Store) Candidates(e Entry) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	if s.cfg.Prefix != "" {
		for _, f := range e.Files {
			add(s.join(s.cfg.Prefix, f))
		}
	}
	for _, f := range e.Files {
		add(f)
	}
	return out
}

// Load returns the content of the first candidate that exists and its path.
func (s *Store) Load(ctx context.Context, e Entry) ([]byte, string, error) {
	candidates := s.Candidates(e)
	for _, p := range candidates {
		data, err := storage.ReadAll(ctx, s.storage, p)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read template %s: %w", p, err)
		}
		return data, p, nil
	}
	return nil, "", &NotFoundError{Key: e.Key, Candidates: candidates}
}

// Asset reads a static asset such as the logo.
func (s *Store) Asset(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, ErrAssetNotFound
	}
	key := s.join(s.cfg.AssetsPrefix, name)
	data, err := storage.ReadAll(ctx, s.storage, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", key, err)
	}
	return data, nil
}

// Logo returns the configured logo, or nil when it is missing.
func (s *Store) Logo(ctx context.Context) []byte {
	data, err := s.Asset(ctx, s.cfg.Logo)
	if err != nil {
		if s.logger != nil && !errors.Is(err, ErrAssetNotFound) {
			s.logger.WithError(err).Warn("Logo unavailable")
		}
		return nil
	}
	return data
}

// Available reports, for each catalog entry, which file would be loaded.
func (s *Store) Available(ctx context.Context) ([]Availability, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Availability, 0, len(c.Templates))
	for _, e := range c.Templates {
		a := Availability{Entry: e}
		for _, p := range s.Candidates(e) {
			ok, err := s.storage.Exists(ctx, p)
			if err != nil {
				return nil, fmt.Errorf("failed to check %s: %w", p, err)
			}
			if ok {
				a.Available, a.Path = true, p
				break
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Store) join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return s.storage.JoinPath(prefix, name)
}
