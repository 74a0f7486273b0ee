package generator_test

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-patternatlas/internal/assets"
	"github.com/goliatone/go-patternatlas/internal/generator"
	"github.com/goliatone/go-patternatlas/internal/markdown"
	"github.com/goliatone/go-patternatlas/internal/templates"
	"github.com/goliatone/go-patternatlas/internal/textutil"
	"github.com/goliatone/go-patternatlas/pkg/atlas"
)

const imageURL = "http://example.com/diagram.png"

type fixtureFetcher struct {
	calls int
}

func (f *fixtureFetcher) Fetch(_ context.Context, url string) ([]byte, string, error) {
	f.calls++
	if url == imageURL {
		return []byte("png-bytes"), url, nil
	}
	if strings.HasPrefix(url, "https://cdn.jsdelivr.net/") {
		return []byte("font-bytes"), url, nil
	}
	return nil, "", errors.New("unexpected url " + url)
}

func fixtureContent() *atlas.Content {
	return &atlas.Content{
		Languages: map[string]*atlas.PatternLanguage{
			"cloud": {
				ID:       "cloud",
				Name:     "Cloud Patterns",
				Intro:    "Patterns for *elastic* systems.",
				Patterns: []string{"loadbalancer"},
			},
		},
		Patterns: map[string]*atlas.Pattern{
			"loadbalancer": {
				ID:    "loadbalancer",
				Name:  "LoadBalancer",
				Intro: "![overview](" + imageURL + ")",
				Sections: []atlas.Section{
					{Label: "Problem", Markdown: "One node melts: $load > capacity$"},
					{Label: "Solution", Markdown: "See [related](pattern-languages/cloud/circuitbreaker)"},
				},
			},
		},
	}
}

func buildSite(t *testing.T, dir string) (*generator.BuildResult, *fixtureFetcher) {
	t.Helper()

	fetcher := &fixtureFetcher{}
	store, err := assets.New(dir, assets.WithFetcher(fetcher))
	if err != nil {
		t.Fatalf("assets.New: %v", err)
	}

	md := markdown.New(store)
	engine, err := templates.New(templates.Helpers{
		Markdown: func(s string) (template.HTML, error) {
			out, err := md.Render(s)
			return template.HTML(out), err
		},
		Resource:       store.Resolve,
		SplitCamelCase: textutil.SplitCamelCase,
	})
	if err != nil {
		t.Fatalf("templates.New: %v", err)
	}

	svc := generator.NewService(generator.Config{OutputDir: dir}, generator.Dependencies{
		Renderer: engine,
		Assets:   store,
		Fetcher:  fetcher,
	})
	result, err := svc.Build(context.Background(), fixtureContent())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return result, fetcher
}

func snapshot(t *testing.T, dir string) map[string][]byte {
	t.Helper()
	files := map[string][]byte{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		rel, _ := filepath.Rel(dir, path)
		files[filepath.ToSlash(rel)] = data
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return files
}

func TestFullRenderPass(t *testing.T) {
	dir := t.TempDir()
	result, _ := buildSite(t, dir)

	if result.PagesBuilt != 4 {
		t.Fatalf("expected 4 pages, got %d", result.PagesBuilt)
	}

	page, err := os.ReadFile(filepath.Join(dir, "pattern-languages", "cloud", "loadbalancer", "index.html"))
	if err != nil {
		t.Fatalf("read pattern page: %v", err)
	}
	html := string(page)

	if strings.Contains(html, imageURL) {
		t.Fatalf("external image URL should be rewritten:\n%s", html)
	}
	if !strings.Contains(html, "/assets/") {
		t.Fatalf("expected store-resolved asset path:\n%s", html)
	}
	if !strings.Contains(html, "load balancer") {
		t.Fatalf("expected split pattern name:\n%s", html)
	}
	if !strings.Contains(html, `class="math"`) {
		t.Fatalf("expected math markup:\n%s", html)
	}
	if !strings.Contains(html, `href="/pattern-languages/cloud/circuitbreaker"`) {
		t.Fatalf("expected root-relative cross reference:\n%s", html)
	}
}

func TestRerenderIsDeterministicAndOffline(t *testing.T) {
	dir := t.TempDir()
	buildSite(t, dir)
	first := snapshot(t, dir)

	_, fetcher := buildSite(t, dir)
	second := snapshot(t, dir)

	if fetcher.calls != 0 {
		t.Fatalf("second pass should be network-independent, got %d fetches", fetcher.calls)
	}

	if len(first) != len(second) {
		t.Fatalf("file sets differ: %d vs %d", len(first), len(second))
	}
	for name, data := range first {
		other, ok := second[name]
		if !ok {
			t.Fatalf("file %s missing from second pass", name)
		}
		if string(data) != string(other) {
			t.Fatalf("file %s differs between passes", name)
		}
	}
}
