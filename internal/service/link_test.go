package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

type fakeFetcher struct {
	calls    int
	metadata map[string]interface{}
	err      error
}

func (f *fakeFetcher) FetchMetadata(ctx context.Context, url string) (map[string]interface{}, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.metadata, nil
}

func TestLinkGetOrCreateScrapesOnce(t *testing.T) {
	db := testDB(t)
	userID := createTestUser(t, db, "ana")
	fetcher := &fakeFetcher{metadata: map[string]interface{}{"title": "Example"}}
	svc := NewLinkService(db, fetcher)

	first, err := svc.GetOrCreate(context.Background(), "https://example.org/page", userID)
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	if first.Metadata["title"] != "Example" {
		t.Fatalf("metadata not stored: %+v", first.Metadata)
	}

	second, err := svc.GetOrCreate(context.Background(), "https://example.org/page", userID)
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if second.UID != first.UID {
		t.Fatal("expected cached row, got a new one")
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected a single scrape, got %d", fetcher.calls)
	}
}

func TestLinkSharedAcrossUsers(t *testing.T) {
	db := testDB(t)
	ana := createTestUser(t, db, "ana")
	bob := createTestUser(t, db, "bob")
	fetcher := &fakeFetcher{metadata: map[string]interface{}{}}
	svc := NewLinkService(db, fetcher)

	first, err := svc.GetOrCreate(context.Background(), "https://example.org/", ana)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.GetOrCreate(context.Background(), "https://example.org/", bob)
	if err != nil {
		t.Fatal(err)
	}
	if second.UID != first.UID {
		t.Fatal("the url cache must be shared across users")
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected a single scrape, got %d", fetcher.calls)
	}
}

func TestLinkRejectsInvalidURL(t *testing.T) {
	svc := NewLinkService(testDB(t), &fakeFetcher{})
	for _, raw := range []string{"", "not a url", "ftp://example.org", "http://"} {
		var vErr *ValidationError
		_, err := svc.GetOrCreate(context.Background(), raw, uuid.New())
		if !errors.As(err, &vErr) {
			t.Fatalf("url %q: want validation error, got %v", raw, err)
		}
	}
}

func TestLinkScrapeFailureStoresBareLink(t *testing.T) {
	db := testDB(t)
	userID := createTestUser(t, db, "ana")
	svc := NewLinkService(db, &fakeFetcher{err: errors.New("connection refused")})

	link, err := svc.GetOrCreate(context.Background(), "https://down.example.org/", userID)
	if err != nil {
		t.Fatalf("scrape failure must not fail the request: %v", err)
	}
	if len(link.Metadata) != 0 {
		t.Fatalf("expected empty metadata, got %+v", link.Metadata)
	}
}

func TestExtractMetadata(t *testing.T) {
	page := `<html><head>
		<link rel="icon" href="/favicon.ico">
		<meta property="og:title" content="Example Domain">
		<meta property="og:image" content="https://example.org/cover.png">
		<meta name="description" content="ignored, not og">
	</head><body></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}

	got := extractMetadata(doc)
	want := map[string]interface{}{
		"icon":  "/favicon.ico",
		"title": "Example Domain",
		"image": "https://example.org/cover.png",
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("key %s: got %v, want %v", k, got[k], v)
		}
	}
}

func TestExtractMetadataPrefersShortcutIcon(t *testing.T) {
	page := `<html><head>
		<link rel="icon" href="/plain.ico">
		<link rel="shortcut icon" href="/shortcut.ico">
	</head></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	if got := extractMetadata(doc); got["icon"] != "/shortcut.ico" {
		t.Fatalf("got icon %v, want /shortcut.ico", got["icon"])
	}
}
