// Package assets implements the content-hash asset store: it maps external
// resource locators to stable local paths under /assets/, downloading each
// resource at most once, storing bytes under their SHA-256 digest, and
// persisting the locator→path mapping across render passes.
package assets

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/natefinch/atomic"

	"github.com/goliatone/go-patternatlas/internal/fetch"
	"github.com/goliatone/go-patternatlas/internal/logging"
	"github.com/goliatone/go-patternatlas/pkg/interfaces"
)

const (
	// Placeholder is the path returned for the empty locator and, with a
	// "#<locator>" fragment appended, recorded for failed downloads.
	Placeholder = "/assets/empty.svg"

	assetDirName = "assets"
	mapFileName  = "asset_map.json"
	assetPrefix  = "/assets/"
)

// ErrNotDirectory reports that the configured store location does not exist
// or is not a directory.
var ErrNotDirectory = errors.New("assets: store location is not a directory")

// Store resolves external resource locators to local asset paths. It is
// owned by a single render pass; the in-memory mapping has no locking and
// must not be shared between concurrent passes.
type Store struct {
	location  string
	assetDir  string
	resources map[string]string
	fetcher   interfaces.Fetcher
	logger    interfaces.Logger
}

var _ interfaces.ResourceResolver = (*Store)(nil)

// Option customises store construction.
type Option func(*Store)

// WithFetcher overrides the HTTP fetcher, primarily for tests.
func WithFetcher(f interfaces.Fetcher) Option {
	return func(s *Store) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithLogger attaches a logger provider for download and load diagnostics.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(s *Store) {
		s.logger = logging.AssetsLogger(provider)
	}
}

// New builds a store rooted at location, which must already exist and be a
// directory; anything else is a deployment error reported immediately. The
// persisted mapping under assets/asset_map.json is loaded best-effort:
// malformed files or entries never abort construction.
func New(location string, opts ...Option) (*Store, error) {
	info, err := os.Stat(location)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "assets: invalid store location")
	}
	if !info.IsDir() {
		return nil, goerrors.Wrap(ErrNotDirectory, goerrors.CategoryValidation, "assets: invalid store location")
	}

	s := &Store{
		location: location,
		assetDir: filepath.Join(location, assetDirName),
		resources: map[string]string{
			"": Placeholder,
		},
		fetcher: fetch.NewHTTP(fetch.DefaultTimeout),
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.loadMap()
	return s, nil
}

// Resolve returns the local asset path for locator. The first successful
// call downloads the resource and stores it under its content hash; repeated
// calls, and calls for byte-identical content under a different locator,
// never download or write twice. A failed download is memoized as
// Placeholder + "#" + locator so it is not retried within this store's
// lifetime. Resolve never fails.
func (s *Store) Resolve(locator string) string {
	if resolved, ok := s.resources[locator]; ok {
		return resolved
	}

	body, finalURL, err := s.fetcher.Fetch(context.Background(), locator)
	if err != nil {
		s.logger.Warn("failed to download resource", "url", locator, "error", err)
		s.resources[locator] = Placeholder + "#" + locator
		return s.resources[locator]
	}

	sum := sha256.Sum256(body)
	name := hex.EncodeToString(sum[:]) + multiSuffix(finalURL)
	target := filepath.Join(s.assetDir, name)

	if _, statErr := os.Stat(target); errors.Is(statErr, fs.ErrNotExist) {
		if writeErr := s.writeAsset(target, body); writeErr != nil {
			s.logger.Warn("failed to store resource", "url", locator, "error", writeErr)
			s.resources[locator] = Placeholder + "#" + locator
			return s.resources[locator]
		}
	}

	s.resources[locator] = assetPrefix + name
	return s.resources[locator]
}

// Save serialises the full mapping, failure markers included, to
// assets/asset_map.json. Called once, after a render pass completes.
func (s *Store) Save() error {
	if err := os.MkdirAll(s.assetDir, 0o755); err != nil {
		return fmt.Errorf("assets: create asset directory: %w", err)
	}
	data, err := json.Marshal(s.resources)
	if err != nil {
		return fmt.Errorf("assets: encode asset map: %w", err)
	}
	if err := atomic.WriteFile(filepath.Join(s.assetDir, mapFileName), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("assets: write asset map: %w", err)
	}
	return nil
}

func (s *Store) writeAsset(target string, body []byte) error {
	if err := os.MkdirAll(s.assetDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, body, 0o644)
}

// loadMap restores persisted locator→path entries. Entries must be strings,
// carry the /assets/ prefix, stay lexically inside the asset root, and point
// at a file that still exists; everything else is dropped. Failure markers
// never pass the existence check, so failed downloads are retried on the
// next run.
func (s *Store) loadMap() {
	data, err := os.ReadFile(filepath.Join(s.assetDir, mapFileName))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("could not load asset map", "error", err)
		}
		return
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("could not load asset map", "error", err)
		return
	}

	for locator, asset := range entries {
		if !validAssetPath(asset) {
			s.logger.Warn("dropping invalid asset map entry", "locator", locator, "path", asset)
			continue
		}
		target := filepath.Join(s.location, filepath.FromSlash(strings.TrimPrefix(asset, "/")))
		if _, err := os.Stat(target); err != nil {
			continue
		}
		s.resources[locator] = asset
	}
}

// validAssetPath reports whether asset is a root-relative path that stays
// lexically inside the asset directory.
func validAssetPath(asset string) bool {
	if !strings.HasPrefix(asset, assetPrefix) {
		return false
	}
	cleaned := path.Clean(asset)
	return strings.HasPrefix(cleaned, assetPrefix)
}

// multiSuffix extracts the full extension chain of the final path segment,
// preserving compound suffixes such as ".tar.gz".
func multiSuffix(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	base := path.Base(p)
	trimmed := strings.TrimLeft(base, ".")
	if i := strings.Index(trimmed, "."); i >= 0 {
		return trimmed[i:]
	}
	return ""
}
