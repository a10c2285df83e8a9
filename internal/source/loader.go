package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Load failure kinds. Callers distinguish them with errors.Is.
var (
	ErrFetch    = errors.New("template fetch failed")
	ErrNotFound = errors.New("template file not found")
	ErrParse    = errors.New("template is not valid JSON")
	ErrSchema   = errors.New("template must be a JSON array of objects")
)

const userAgent = "demo-data/1.0"

// Loader retrieves template collections from remote URLs or local files.
// Loading is atomic: either the full collection parses or an error is
// returned and nothing is kept.
type Loader struct {
	client *http.Client
	cache  *Cache // optional; nil disables caching
}

// NewLoader creates a loader whose remote fetches are bounded by timeout.
func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Loader{client: &http.Client{Timeout: timeout}}
}

// WithCache returns a copy of the loader that consults c for remote bodies.
func (l *Loader) WithCache(c *Cache) *Loader {
	l2 := *l
	l2.cache = c
	return &l2
}

// Load resolves ref and returns the parsed template collection in order.
func (l *Loader) Load(ctx context.Context, ref string) ([]map[string]any, error) {
	src := Resolve(ref)
	var (
		body []byte
		err  error
	)
	switch src.Kind {
	case Remote:
		body, err = l.fetch(ctx, src.Ref)
	default:
		body, err = l.read(src.Ref)
	}
	if err != nil {
		return nil, err
	}
	return decode(body)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.cache != nil {
		if b, ok := l.cache.Get(ctx, url); ok {
			slog.Debug("template cache hit", "url", url, "bytes", len(b))
			return b, nil
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d from %s", ErrFetch, resp.StatusCode, url)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	slog.Info("fetched template", "url", url, "bytes", len(b))
	if l.cache != nil {
		l.cache.Put(ctx, url, b)
	}
	return b, nil
}

func (l *Loader) read(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return b, nil
}

// decode parses body into an ordered collection of template objects.
func decode(body []byte) ([]map[string]any, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, ErrSchema
	}
	out := make([]map[string]any, 0, len(arr))
	for i, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrSchema, i)
		}
		out = append(out, obj)
	}
	return out, nil
}
