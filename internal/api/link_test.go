package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLinkEndpointScrapesAndCaches(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
			<link rel="icon" href="/favicon.ico">
			<meta property="og:title" content="Test Page">
		</head><body></body></html>`))
	}))
	defer page.Close()

	router, _ := setupRouter(t)
	tokens := registerAndLogin(t, router, "linker")

	type linkResponse struct {
		UID      string         `json:"uid"`
		URL      string         `json:"url"`
		Metadata map[string]any `json:"metadata"`
	}

	w := doJSON(t, router, http.MethodPost, "/api/links/", tokens.Access, map[string]string{"url": page.URL})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	first := decode[linkResponse](t, w)
	if first.Metadata["title"] != "Test Page" || first.Metadata["icon"] != "/favicon.ico" {
		t.Fatalf("unexpected metadata: %+v", first.Metadata)
	}

	w = doJSON(t, router, http.MethodPost, "/api/links/", tokens.Access, map[string]string{"url": page.URL})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	if second := decode[linkResponse](t, w); second.UID != first.UID {
		t.Fatal("expected the cached link on repeat lookup")
	}
}

func TestLinkEndpointRequiresAuth(t *testing.T) {
	router, _ := setupRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/links/", "", map[string]string{"url": "https://example.org/"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestLinkEndpointRejectsBadURL(t *testing.T) {
	router, _ := setupRouter(t)
	tokens := registerAndLogin(t, router, "linker")
	w := doJSON(t, router, http.MethodPost, "/api/links/", tokens.Access, map[string]string{"url": "ftp://example.org/"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body %s", w.Code, w.Body.String())
	}
}
