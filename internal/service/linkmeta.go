package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// MetadataFetcher resolves Open Graph metadata for a URL.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, url string) (map[string]interface{}, error)
}

// HTTPMetadataFetcher scrapes og:* meta tags and the favicon link
// from the page at the URL.
type HTTPMetadataFetcher struct {
	httpClient *http.Client
}

// NewHTTPMetadataFetcher creates a fetcher with a scrape timeout.
func NewHTTPMetadataFetcher() *HTTPMetadataFetcher {
	return &HTTPMetadataFetcher{
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// FetchMetadata downloads the page and extracts its icon and og:* tags.
func (f *HTTPMetadataFetcher) FetchMetadata(ctx context.Context, url string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	return extractMetadata(doc), nil
}

func extractMetadata(doc *goquery.Document) map[string]interface{} {
	metadata := map[string]interface{}{}

	icon, ok := doc.Find(`link[rel="shortcut icon"]`).Attr("href")
	if !ok {
		icon, ok = doc.Find(`link[rel="icon"]`).Attr("href")
	}
	if ok {
		metadata["icon"] = icon
	}

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		prop, _ := sel.Attr("property")
		if !strings.HasPrefix(prop, "og:") {
			return
		}
		content, _ := sel.Attr("content")
		metadata[strings.TrimPrefix(prop, "og:")] = content
	})
	return metadata
}
