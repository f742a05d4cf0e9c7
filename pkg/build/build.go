// Package build contains the pipeline that turns one user prompt into an
// ordered stream of recommendation events. The orchestrator walks a fixed
// sequence of phases (classify, per-category search, cross-product page
// enrichment, done); once classification has succeeded the pipeline can
// only degrade, never fail.
package build

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/stackscout/backend/internal/metrics"
	"github.com/stackscout/backend/pkg/catalog"
	"github.com/stackscout/backend/pkg/graph"
	"github.com/stackscout/backend/pkg/logger"
	"github.com/stackscout/backend/pkg/preview"
	"github.com/stackscout/backend/pkg/stream"
)

// Status messages surfaced in the chat transcript at each phase boundary.
const (
	StatusAnalyzing = "Analyzing your project description..."
	StatusSearching = "Searching for relevant technologies..."
	StatusDetails   = "Finding detailed resources..."
)

// DeploymentCategory is always appended to the classifier's output so
// deployment results appear in every build. Pipeline policy, not a model
// decision.
const DeploymentCategory = "deployment"

// CategoryClassifier is the language-model collaborator.
type CategoryClassifier interface {
	Categories(ctx context.Context, prompt string) ([]string, error)
	RelevantPages(ctx context.Context, prompt string, candidates []string) []string
}

// Catalog is the product/page search collaborator. Both operations degrade
// to fallbacks internally and never fail.
type Catalog interface {
	SearchProducts(ctx context.Context, category string) []catalog.Product
	SearchPages(ctx context.Context, productID string) []catalog.Page
}

// PreviewFetcher is the best-effort page metadata collaborator.
type PreviewFetcher interface {
	Fetch(ctx context.Context, url string) preview.Preview
}

// Policy selects the concurrency shape of the category and enrichment
// phases.
type Policy int

const (
	// Sequential processes categories and products strictly in order.
	Sequential Policy = iota
	// FanOut processes categories and products concurrently, bounded by
	// Config.Concurrency. Each category's events are still emitted as one
	// contiguous block when the category completes.
	FanOut
)

// Config tunes one Builder. The zero value means sequential execution with
// default graph parameters.
type Config struct {
	Policy      Policy
	Concurrency int64        // collaborator calls in flight in fan-out mode, defaults to 8
	Neighbors   int          // graph degree bound, defaults to graph.DefaultNeighbors
	Scorer      graph.Scorer // nil for the default random scorer
	PageGraphs  bool         // also emit page-level graphs after enrichment
}

// Builder runs builds against a fixed set of collaborators.
type Builder struct {
	classifier CategoryClassifier
	catalog    Catalog
	previews   PreviewFetcher
	config     Config
	slots      *semaphore.Weighted
}

// NewBuilder creates a Builder.
func NewBuilder(
	classifier CategoryClassifier,
	cat Catalog,
	previews PreviewFetcher,
	config Config,
) *Builder {
	if config.Concurrency <= 0 {
		config.Concurrency = 8
	}
	return &Builder{
		classifier: classifier,
		catalog:    cat,
		previews:   previews,
		config:     config,
		slots:      semaphore.NewWeighted(config.Concurrency),
	}
}

// ownedProduct keeps the category a product was discovered under; products
// found under multiple categories stay separate associations.
type ownedProduct struct {
	category string
	product  catalog.Product
}

// Run executes one build, emitting events onto ch until the terminal done
// event. The returned error is diagnostic only: by the time Run returns,
// everything the client will ever see is already on the stream.
func (b *Builder) Run(ctx context.Context, prompt string, ch *stream.Channel) error {
	metrics.BuildsStarted.Inc()
	ch.Open()

	if err := ch.Emit(stream.Status(StatusAnalyzing)); err != nil {
		return err
	}

	categories, err := b.classifier.Categories(ctx, prompt)
	if err != nil {
		// Headers are committed, so the failure has to travel as events.
		metrics.BuildsFailed.Inc()
		logger.Error("Classification failed, terminating build", "err", err)
		_ = ch.Emit(
			stream.Error("Could not understand the project description. Please try again."),
			stream.Done(),
		)
		return err
	}
	categories = append(categories, DeploymentCategory)

	if err := ch.Emit(
		stream.Categories(categories),
		stream.Status(StatusSearching),
	); err != nil {
		return err
	}

	var collected []ownedProduct
	if b.config.Policy == FanOut {
		collected = b.categoryPhaseFanOut(ctx, categories, ch)
	} else {
		collected = b.categoryPhaseSequential(ctx, categories, ch)
	}

	if err := ch.Emit(stream.Status(StatusDetails)); err != nil {
		return err
	}

	pagesByProduct := b.enrichmentPhase(ctx, prompt, collected, ch)

	if b.config.PageGraphs {
		b.emitPageGraphs(collected, pagesByProduct, ch)
	}

	if err := ch.Emit(stream.Done()); err != nil {
		return err
	}
	metrics.BuildsCompleted.Inc()
	return nil
}

// categoryPhaseSequential handles one category at a time, emitting its
// product events and graph before moving on.
func (b *Builder) categoryPhaseSequential(
	ctx context.Context,
	categories []string,
	ch *stream.Channel,
) []ownedProduct {
	var collected []ownedProduct
	for _, category := range categories {
		events, owned := b.processCategory(ctx, category)
		collected = append(collected, owned...)
		if err := ch.Emit(events...); err != nil {
			logger.Warn("Stream write failed mid-build", "category", category, "err", err)
			return collected
		}
	}
	return collected
}

// categoryPhaseFanOut handles categories concurrently. Every category's
// product events plus graph are emitted in one batch so the stream never
// interleaves a category's products with another category's graph.
func (b *Builder) categoryPhaseFanOut(
	ctx context.Context,
	categories []string,
	ch *stream.Channel,
) []ownedProduct {
	var (
		mu        sync.Mutex
		collected []ownedProduct
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, category := range categories {
		g.Go(func() error {
			defer recoverItem("category", category)

			events, owned := b.processCategory(gctx, category)

			mu.Lock()
			collected = append(collected, owned...)
			mu.Unlock()

			if err := ch.Emit(events...); err != nil {
				logger.Warn("Stream write failed mid-build", "category", category, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return collected
}

// processCategory searches one category, enriches its products, and returns
// the events to emit for it: one product event per product, then the
// category graph (skipped when the category came up empty).
func (b *Builder) processCategory(ctx context.Context, category string) ([]stream.Event, []ownedProduct) {
	var products []catalog.Product
	b.withSlot(ctx, func() {
		products = b.catalog.SearchProducts(ctx, category)
	})

	enriched := make([]catalog.Product, len(products))
	if b.config.Policy == FanOut {
		g, gctx := errgroup.WithContext(ctx)
		for i, product := range products {
			g.Go(func() error {
				defer recoverItem("product", product.ID)
				enriched[i] = b.enrichProduct(gctx, product)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, product := range products {
			func() {
				defer recoverItem("product", product.ID)
				enriched[i] = b.enrichProduct(ctx, product)
			}()
		}
	}

	// A panicked item leaves its zero value behind; drop it rather than
	// emitting a half-built product.
	events := make([]stream.Event, 0, len(enriched)+1)
	owned := make([]ownedProduct, 0, len(enriched))
	kept := make([]catalog.Product, 0, len(enriched))
	for _, product := range enriched {
		if product.ID == "" {
			continue
		}
		events = append(events, stream.ProductFound(category, product))
		owned = append(owned, ownedProduct{category: category, product: product})
		kept = append(kept, product)
	}

	if len(kept) > 0 {
		g := graph.FromProducts(category, kept, graph.Options{
			Neighbors: b.config.Neighbors,
			Scorer:    b.config.Scorer,
		})
		events = append(events, stream.Graph(category, g))
	}

	return events, owned
}

func (b *Builder) enrichProduct(ctx context.Context, product catalog.Product) catalog.Product {
	if product.DocsURL == "" {
		return product
	}
	var pv preview.Preview
	b.withSlot(ctx, func() {
		pv = b.previews.Fetch(ctx, product.DocsURL)
	})
	return preview.MergeProduct(product, pv)
}

// enrichmentPhase finds documentation pages for every collected product and
// emits one product-detail event per page. Returns the pages grouped by
// product id for the optional page-graph pass.
func (b *Builder) enrichmentPhase(
	ctx context.Context,
	prompt string,
	collected []ownedProduct,
	ch *stream.Channel,
) map[string][]catalog.Page {
	var mu sync.Mutex
	pagesByProduct := make(map[string][]catalog.Page, len(collected))

	processOne := func(ctx context.Context, owned ownedProduct) {
		defer recoverItem("product-pages", owned.product.ID)

		pages := b.pagesFor(ctx, prompt, owned.product)
		for _, page := range pages {
			enriched := b.enrichPage(ctx, page)

			mu.Lock()
			pagesByProduct[owned.product.ID] = append(pagesByProduct[owned.product.ID], enriched)
			mu.Unlock()

			if err := ch.Emit(stream.ProductDetail(owned.product.ID, enriched)); err != nil {
				logger.Warn("Stream write failed mid-build", "product", owned.product.ID, "err", err)
				return
			}
		}
	}

	if b.config.Policy == FanOut {
		g, gctx := errgroup.WithContext(ctx)
		for _, owned := range collected {
			g.Go(func() error {
				processOne(gctx, owned)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, owned := range collected {
			processOne(ctx, owned)
		}
	}

	return pagesByProduct
}

// pagesFor resolves the documentation pages of one product. Products that
// carry known documentation filepaths go through the model-backed relevance
// filter; everything else hits the catalog page search.
func (b *Builder) pagesFor(ctx context.Context, prompt string, product catalog.Product) []catalog.Page {
	if len(product.CustomerPageFilepaths) == 0 {
		var pages []catalog.Page
		b.withSlot(ctx, func() {
			pages = b.catalog.SearchPages(ctx, product.ID)
		})
		return pages
	}

	candidates := make([]string, 0, len(product.CustomerPageFilepaths))
	for _, filepath := range product.CustomerPageFilepaths {
		candidates = append(candidates, docPageURL(product.ID, filepath))
	}

	var selected []string
	b.withSlot(ctx, func() {
		selected = b.classifier.RelevantPages(ctx, prompt, candidates)
	})

	pages := make([]catalog.Page, 0, len(selected))
	for _, url := range selected {
		pages = append(pages, catalog.Page{
			Title: pageTitleFromURL(url),
			URL:   url,
		})
	}
	return pages
}

func (b *Builder) enrichPage(ctx context.Context, page catalog.Page) catalog.Page {
	var pv preview.Preview
	b.withSlot(ctx, func() {
		pv = b.previews.Fetch(ctx, page.URL)
	})
	return preview.MergePage(page, pv)
}

// emitPageGraphs replaces each category's product-level graph with a
// page-level one now that pages are known. The reducer keeps at most one
// graph per category, so re-emission is replacement.
func (b *Builder) emitPageGraphs(
	collected []ownedProduct,
	pagesByProduct map[string][]catalog.Page,
	ch *stream.Channel,
) {
	byCategory := make(map[string][]graph.ProductPages)
	var order []string
	for _, owned := range collected {
		pages := pagesByProduct[owned.product.ID]
		if len(pages) == 0 {
			continue
		}
		if _, seen := byCategory[owned.category]; !seen {
			order = append(order, owned.category)
		}
		byCategory[owned.category] = append(byCategory[owned.category], graph.ProductPages{
			Product: owned.product,
			Pages:   pages,
		})
	}

	for _, category := range order {
		g := graph.FromPages(category, byCategory[category], graph.Options{
			Neighbors: b.config.Neighbors,
			Scorer:    b.config.Scorer,
		})
		if err := ch.Emit(stream.Graph(category, g)); err != nil {
			logger.Warn("Stream write failed mid-build", "category", category, "err", err)
			return
		}
	}
}

// withSlot bounds collaborator calls in flight. Permits are held only for
// the duration of a single call, so nested phases cannot deadlock.
func (b *Builder) withSlot(ctx context.Context, fn func()) {
	if err := b.slots.Acquire(ctx, 1); err != nil {
		return
	}
	defer b.slots.Release(1)
	fn()
}

// recoverItem isolates a panicking per-item unit of work: the item produced
// nothing, siblings proceed.
func recoverItem(kind, id string) {
	if r := recover(); r != nil {
		logger.Error("Recovered panic in build item", "kind", kind, "id", id, "panic", fmt.Sprint(r))
	}
}

// docPageURL derives a hosted documentation URL from a product's page
// filepath.
func docPageURL(productID, filepath string) string {
	return fmt.Sprintf("https://%s.mintlify.app/%s", productID, strings.TrimPrefix(filepath, "/"))
}

// pageTitleFromURL derives a readable title from a documentation URL path.
func pageTitleFromURL(url string) string {
	base := path.Base(url)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	if base == "" || base == "." || base == "/" {
		return "Documentation"
	}

	words := strings.Fields(base)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
