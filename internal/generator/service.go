// Package generator walks the content tree and emits the complete static
// site: one page per node, shared assets, and the persisted asset mapping.
// A build is single-threaded and runs every step to completion in order, so
// the asset store is loaded before the first resolve and saved after the
// last.
package generator

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/goliatone/go-patternatlas/internal/assets"
	"github.com/goliatone/go-patternatlas/internal/fetch"
	"github.com/goliatone/go-patternatlas/internal/logging"
	"github.com/goliatone/go-patternatlas/pkg/atlas"
	"github.com/goliatone/go-patternatlas/pkg/interfaces"
)

var (
	errRendererRequired = errors.New("generator: template renderer is required")
	errStoreRequired    = errors.New("generator: asset store is required")
	errContentRequired  = errors.New("generator: content tree is required")
)

// Config captures runtime behaviour toggles for a build.
type Config struct {
	OutputDir string
	Branded   bool
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Renderer interfaces.TemplateRenderer
	Assets   *assets.Store
	Fetcher  interfaces.Fetcher
	Logger   interfaces.LoggerProvider
}

// Service describes the static site build contract.
type Service interface {
	Build(ctx context.Context, content *atlas.Content) (*BuildResult, error)
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt   int
	FontsFetched int
	FontsFailed  int
	Duration     time.Duration
}

// PageContext is the data contract passed to every template render. Fields
// not relevant to a template stay nil.
type PageContext struct {
	Content  *atlas.Content
	Language *atlas.PatternLanguage
	Pattern  *atlas.Pattern
	Branded  bool
}

// NewService wires a generator with the provided configuration and
// dependencies. The font fetcher defaults to the HTTP implementation when
// not supplied.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Fetcher == nil {
		deps.Fetcher = fetch.NewHTTP(fetch.DefaultTimeout)
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		writer: &fsWriter{root: cfg.OutputDir},
		logger: logging.GeneratorLogger(deps.Logger),
	}
}

type service struct {
	cfg    Config
	deps   Dependencies
	writer artifactWriter
	logger interfaces.Logger
}

// Build produces the full output tree. Page template failures abort the
// build; font download failures are logged and skipped.
func (s *service) Build(ctx context.Context, content *atlas.Content) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}
	if s.deps.Assets == nil {
		return nil, errStoreRequired
	}
	if content == nil {
		return nil, errContentRequired
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &BuildResult{}

	if err := s.writePlaceholder(); err != nil {
		return nil, err
	}

	fetched, failed := s.downloadFonts(ctx)
	result.FontsFetched = fetched
	result.FontsFailed = failed

	if err := s.writeStyles(); err != nil {
		return nil, err
	}

	if err := s.writeIndex(content, result); err != nil {
		return nil, err
	}

	for _, languageID := range sortedKeys(content.Languages) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		language := content.Languages[languageID]
		if err := s.writeLanguage(content, language, result); err != nil {
			return nil, err
		}
	}

	if err := s.deps.Assets.Save(); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	s.logger.Info("build complete",
		"pages", result.PagesBuilt,
		"fonts_fetched", result.FontsFetched,
		"fonts_failed", result.FontsFailed,
		"duration", result.Duration,
	)
	return result, nil
}

func (s *service) writePlaceholder() error {
	svg, err := s.deps.Renderer.Render("empty.svg", PageContext{Branded: s.cfg.Branded})
	if err != nil {
		return err
	}
	return s.writer.WriteFile("assets/empty.svg", []byte(svg))
}

func (s *service) writeStyles() error {
	css, err := s.deps.Renderer.Render("styles.css", PageContext{Branded: s.cfg.Branded})
	if err != nil {
		return err
	}
	return s.writer.WriteFile("styles.css", []byte(css))
}

// writeIndex emits the global index twice: at the site root and at the
// pattern-languages section root, with identical content.
func (s *service) writeIndex(content *atlas.Content, result *BuildResult) error {
	html, err := s.deps.Renderer.Render("languages", PageContext{
		Content: content,
		Branded: s.cfg.Branded,
	})
	if err != nil {
		return err
	}
	for _, target := range []string{"index.html", "pattern-languages/index.html"} {
		if err := s.writer.WriteFile(target, []byte(html)); err != nil {
			return err
		}
		result.PagesBuilt++
	}
	return nil
}

func (s *service) writeLanguage(content *atlas.Content, language *atlas.PatternLanguage, result *BuildResult) error {
	html, err := s.deps.Renderer.Render("language-overview", PageContext{
		Content:  content,
		Language: language,
		Branded:  s.cfg.Branded,
	})
	if err != nil {
		return err
	}
	if err := s.writer.WriteFile("pattern-languages/"+language.ID+"/index.html", []byte(html)); err != nil {
		return err
	}
	result.PagesBuilt++

	for _, patternID := range language.Patterns {
		pattern, ok := content.Pattern(patternID)
		if !ok {
			continue
		}
		if err := s.writePattern(content, language, pattern, result); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) writePattern(content *atlas.Content, language *atlas.PatternLanguage, pattern *atlas.Pattern, result *BuildResult) error {
	html, err := s.deps.Renderer.Render("pattern", PageContext{
		Content:  content,
		Language: language,
		Pattern:  pattern,
		Branded:  s.cfg.Branded,
	})
	if err != nil {
		return err
	}
	target := "pattern-languages/" + language.ID + "/" + pattern.ID + "/index.html"
	if err := s.writer.WriteFile(target, []byte(html)); err != nil {
		return err
	}
	result.PagesBuilt++
	return nil
}

func sortedKeys(languages map[string]*atlas.PatternLanguage) []string {
	keys := make([]string, 0, len(languages))
	for key := range languages {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
