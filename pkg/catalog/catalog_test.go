package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// unreachable is a base URL nothing listens on, forcing the fallback path.
const unreachable = "http://127.0.0.1:1"

func TestSearchProducts_FallbackOnUnreachableServer(t *testing.T) {
	client := NewClient(NewClientParams{BaseURL: unreachable})

	products := client.SearchProducts(context.Background(), "frontend")
	if len(products) == 0 {
		t.Fatal("expected non-empty fallback product list")
	}

	ids := make(map[string]bool, len(products))
	for _, p := range products {
		ids[p.ID] = true
	}
	if !ids["react"] || !ids["nextjs"] {
		t.Fatalf("frontend fallback must contain react and nextjs, got %v", ids)
	}
}

func TestSearchProducts_FallbackIsCaseInsensitive(t *testing.T) {
	client := NewClient(NewClientParams{BaseURL: unreachable})

	products := client.SearchProducts(context.Background(), "Frontend")
	if len(products) == 0 || products[0].ID == "placeholder" {
		t.Fatalf("expected frontend table for mixed-case category, got %+v", products)
	}
}

func TestSearchProducts_PlaceholderForUnknownCategory(t *testing.T) {
	client := NewClient(NewClientParams{BaseURL: unreachable})

	products := client.SearchProducts(context.Background(), "quantum-computing")
	if len(products) != 1 {
		t.Fatalf("expected exactly one placeholder product, got %d", len(products))
	}
	if products[0].ID != "placeholder" {
		t.Fatalf("placeholder id = %q, want %q", products[0].ID, "placeholder")
	}
	if !strings.Contains(products[0].Name, "quantum-computing") {
		t.Fatalf("placeholder name %q should mention the category", products[0].Name)
	}
}

func TestSearchProducts_RemoteResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search-products" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "frontend" {
			t.Fatalf("query q = %q, want frontend", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"subdomain":"acme","name":"Acme UI","summary":"Components","path":"intro","customerPageFilepaths":["guides/a","guides/b"]}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(NewClientParams{BaseURL: srv.URL})
	products := client.SearchProducts(context.Background(), "frontend")

	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	p := products[0]
	if p.ID != "acme" || p.Name != "Acme UI" {
		t.Fatalf("unexpected product: %+v", p)
	}
	if p.DocsURL != "https://acme.mintlify.app/intro" {
		t.Fatalf("docsUrl = %q", p.DocsURL)
	}
	if len(p.CustomerPageFilepaths) != 2 {
		t.Fatalf("expected 2 page filepaths, got %d", len(p.CustomerPageFilepaths))
	}
}

func TestSearchProducts_FallbackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(NewClientParams{BaseURL: srv.URL})
	products := client.SearchProducts(context.Background(), "database")
	if len(products) == 0 {
		t.Fatal("expected fallback products on 500")
	}
	if products[0].ID == "" {
		t.Fatalf("fallback product missing id: %+v", products[0])
	}
}

func TestSearchProducts_FallbackOnMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(NewClientParams{BaseURL: srv.URL})
	products := client.SearchProducts(context.Background(), "payments")
	if len(products) == 0 {
		t.Fatal("expected fallback products on malformed payload")
	}
}

func TestSearchPages_FallbackForKnownProduct(t *testing.T) {
	client := NewClient(NewClientParams{BaseURL: unreachable})

	pages := client.SearchPages(context.Background(), "react")
	if len(pages) == 0 {
		t.Fatal("expected non-empty fallback pages for react")
	}
	for _, page := range pages {
		if page.Title == "" || page.URL == "" {
			t.Fatalf("fallback page missing fields: %+v", page)
		}
	}
}

func TestSearchPages_SynthesizedForUnknownProduct(t *testing.T) {
	client := NewClient(NewClientParams{BaseURL: unreachable})

	pages := client.SearchPages(context.Background(), "mystery")
	if len(pages) != 3 {
		t.Fatalf("expected 3 synthesized pages, got %d", len(pages))
	}
	wantSuffixes := []string{"/docs", "/quickstart", "/api"}
	for i, page := range pages {
		if !strings.HasPrefix(page.URL, "https://mystery.com") {
			t.Fatalf("page %d url %q not derived from id", i, page.URL)
		}
		if !strings.HasSuffix(page.URL, wantSuffixes[i]) {
			t.Fatalf("page %d url %q, want suffix %q", i, page.URL, wantSuffixes[i])
		}
	}
}

func TestSearchPages_RemoteResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"subdomain":"acme","customDomain":"https://docs.acme.dev","path":"quickstart"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(NewClientParams{BaseURL: srv.URL})
	pages := client.SearchPages(context.Background(), "acme")

	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].URL != "https://docs.acme.dev/quickstart" {
		t.Fatalf("page url = %q", pages[0].URL)
	}
}
