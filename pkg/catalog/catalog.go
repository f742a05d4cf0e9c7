// Package catalog is the client for the product/page search collaborator.
// Every lookup degrades to a deterministic fallback instead of returning an
// error, so a broken search backend can never break a build.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/stackscout/backend/internal/metrics"
	"github.com/stackscout/backend/pkg/logger"
)

// Product is a recommended technology discovered under a category.
// Identity is ID; two results with the same ID refer to the same product.
type Product struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Summary               string   `json:"summary,omitempty"`
	DocsURL               string   `json:"docsUrl,omitempty"`
	Image                 string   `json:"image,omitempty"`
	Description           string   `json:"description,omitempty"`
	Site                  string   `json:"site,omitempty"`
	CustomerPageFilepaths []string `json:"customerPageFilepaths,omitempty"`
}

// Page is a documentation page belonging to a product.
type Page struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Site        string `json:"site,omitempty"`
}

type productResult struct {
	Subdomain             string   `json:"subdomain"`
	Name                  string   `json:"name"`
	Summary               string   `json:"summary"`
	Path                  string   `json:"path"`
	CustomerPageFilepaths []string `json:"customerPageFilepaths"`
}

type searchProductsResponse struct {
	Results []productResult `json:"results"`
}

type pageResult struct {
	Subdomain    string `json:"subdomain"`
	CustomDomain string `json:"customDomain"`
	Path         string `json:"path"`
}

type searchPagesResponse struct {
	Results []pageResult `json:"results"`
}

// Client talks to the search backend over HTTP.
type Client struct {
	baseURL    string
	limit      int
	httpClient *http.Client
}

// NewClientParams configures a catalog Client.
type NewClientParams struct {
	BaseURL string
	Limit   int           // results per query, defaults to 2
	Timeout time.Duration // per-request timeout, defaults to 5s
}

// NewClient creates a catalog search client.
func NewClient(params NewClientParams) *Client {
	limit := params.Limit
	if limit <= 0 {
		limit = 2
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    params.BaseURL,
		limit:      limit,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SearchProducts returns products matching a category. On any failure it
// returns the fallback table for the category; it never returns an error.
func (c *Client) SearchProducts(ctx context.Context, category string) []Product {
	results, err := c.fetchProducts(ctx, category)
	if err != nil {
		logger.Warn("Product search failed, serving fallback", "category", category, "err", err)
		metrics.CatalogFallbacks.WithLabelValues("products").Inc()
		return FallbackProducts(category)
	}
	return results
}

func (c *Client) fetchProducts(ctx context.Context, category string) ([]Product, error) {
	endpoint := fmt.Sprintf("%s/search-products?q=%s&limit=%d",
		c.baseURL, url.QueryEscape(category), c.limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach search server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search server returned %d", resp.StatusCode)
	}

	var body searchProductsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("malformed search response: %w", err)
	}

	products := make([]Product, 0, len(body.Results))
	for _, r := range body.Results {
		products = append(products, Product{
			ID:                    r.Subdomain,
			Name:                  r.Name,
			Summary:               r.Summary,
			DocsURL:               fmt.Sprintf("https://%s.mintlify.app/%s", r.Subdomain, r.Path),
			CustomerPageFilepaths: r.CustomerPageFilepaths,
		})
	}
	return products, nil
}

// SearchPages returns documentation pages for a product id. On any failure it
// returns the fallback table for the id; it never returns an error.
func (c *Client) SearchPages(ctx context.Context, productID string) []Page {
	results, err := c.fetchPages(ctx, productID)
	if err != nil {
		logger.Warn("Page search failed, serving fallback", "product", productID, "err", err)
		metrics.CatalogFallbacks.WithLabelValues("pages").Inc()
		return FallbackPages(productID)
	}
	return results
}

func (c *Client) fetchPages(ctx context.Context, productID string) ([]Page, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&limit=%d",
		c.baseURL, url.QueryEscape(productID), c.limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach search server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search server returned %d", resp.StatusCode)
	}

	var body searchPagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("malformed search response: %w", err)
	}

	pages := make([]Page, 0, len(body.Results))
	for _, r := range body.Results {
		pages = append(pages, Page{
			Title: r.Subdomain,
			URL:   fmt.Sprintf("%s/%s", r.CustomDomain, r.Path),
		})
	}
	return pages, nil
}
