package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

var ErrNoSources = errors.New("no catalog sources provided")

// Loader reads catalog documents from local files or HTTP(S) URLs.
// Sources ending in .gz are gunzipped before decoding.
type Loader struct {
	client *http.Client
}

// sourceResult holds the result of loading a single source
type sourceResult struct {
	index   int
	catalog Catalog
	err     error
}

// NewLoader creates a catalog loader
func NewLoader() *Loader {
	return &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Load reads all sources concurrently and merges them in the order given.
// A product or category id seen in a later source replaces the earlier entry.
// Returns error if any source fails to load.
func (l *Loader) Load(ctx context.Context, sources []string) (Catalog, error) {
	if len(sources) == 0 {
		return Catalog{}, ErrNoSources
	}

	resultChan := make(chan sourceResult, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(index int, source string) {
			defer wg.Done()

			c, err := l.loadSource(ctx, source)
			resultChan <- sourceResult{index: index, catalog: c, err: err}
		}(i, strings.TrimSpace(src))
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Collect results maintaining order
	results := make([]sourceResult, len(sources))
	for result := range resultChan {
		results[result.index] = result
	}

	for i, result := range results {
		if result.err != nil {
			return Catalog{}, fmt.Errorf("failed to load catalog source %d (%s): %w", i+1, sources[i], result.err)
		}
	}

	catalogs := make([]Catalog, len(results))
	for i, result := range results {
		catalogs[i] = result.catalog
	}
	return Merge(catalogs...), nil
}

func (l *Loader) loadSource(ctx context.Context, source string) (Catalog, error) {
	var (
		body io.ReadCloser
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = l.openURL(ctx, source)
	} else {
		body, err = os.Open(source)
	}
	if err != nil {
		return Catalog{}, err
	}
	defer body.Close()

	var r io.Reader = body
	if strings.HasSuffix(source, ".gz") {
		gzReader, err := gzip.NewReader(body)
		if err != nil {
			return Catalog{}, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		r = gzReader
	}

	return Decode(r)
}

func (l *Loader) openURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download catalog: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Decode parses a single catalog document
func Decode(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf("invalid catalog document: %w", err)
	}

	for i, p := range c.Products {
		if strings.TrimSpace(p.ID) == "" {
			return Catalog{}, fmt.Errorf("invalid catalog document: products[%d] has no id", i)
		}
		if p.Currency == "" {
			c.Products[i].Currency = "USD"
		}
	}
	for i, cat := range c.Categories {
		if strings.TrimSpace(cat.ID) == "" {
			return Catalog{}, fmt.Errorf("invalid catalog document: categories[%d] has no id", i)
		}
	}
	return c, nil
}

// Merge combines catalogs left to right, later ids replacing earlier ones
// while keeping the position of the first occurrence.
func Merge(catalogs ...Catalog) Catalog {
	var merged Catalog
	productIdx := make(map[string]int)
	categoryIdx := make(map[string]int)

	for _, c := range catalogs {
		for _, cat := range c.Categories {
			if i, ok := categoryIdx[cat.ID]; ok {
				merged.Categories[i] = cat
				continue
			}
			categoryIdx[cat.ID] = len(merged.Categories)
			merged.Categories = append(merged.Categories, cat)
		}
		for _, p := range c.Products {
			if i, ok := productIdx[p.ID]; ok {
				merged.Products[i] = p
				continue
			}
			productIdx[p.ID] = len(merged.Products)
			merged.Products = append(merged.Products, p)
		}
	}
	return merged
}
