package interfaces

import "context"

// ResourceResolver maps an external resource locator (usually a URL) to a
// root-relative local asset path that is safe to embed in generated HTML.
// Resolve never fails: unreachable resources yield a placeholder path.
type ResourceResolver interface {
	Resolve(locator string) string
}

// Fetcher retrieves the raw bytes behind a URL. FinalURL reports the URL
// after redirects so callers can derive filenames from the real target.
// Implementations must treat non-2xx responses as errors.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (body []byte, finalURL string, err error)
}
