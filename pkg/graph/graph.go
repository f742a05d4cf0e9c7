// Package graph builds the per-category similarity graphs shown in the
// results panel. Construction is pure and safe to run concurrently for
// independent categories.
package graph

import (
	"fmt"
	"math/rand"

	"github.com/stackscout/backend/pkg/catalog"
)

// DefaultNeighbors is the bounded degree used when no neighbor count is set.
const DefaultNeighbors = 5

// Node is a presentational projection of a product or page.
type Node struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Score       float64 `json:"score"`
	Group       string  `json:"group"`
	ProductID   string  `json:"productId,omitempty"`
	ProductName string  `json:"productName,omitempty"`
	URL         string  `json:"url,omitempty"`
}

// Link is an undirected edge; (a,b) and (b,a) never both appear.
type Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// SearchGraph is the graph emitted for one category. It is never mutated
// after construction.
type SearchGraph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Scorer produces relevance scores and edge weights. The default is random:
// real similarity is pending a vector-search backend, and only the shape of
// the output is contractual.
type Scorer func() float64

// Options configures graph synthesis.
type Options struct {
	Neighbors int    // links per node before dedup, defaults to DefaultNeighbors
	Scorer    Scorer // defaults to rand.Float64
}

func (o Options) normalized() Options {
	if o.Neighbors <= 0 {
		o.Neighbors = DefaultNeighbors
	}
	if o.Scorer == nil {
		o.Scorer = rand.Float64
	}
	return o
}

// ProductPages pairs a product with the pages discovered for it, the input
// to the page-level graph variant.
type ProductPages struct {
	Product catalog.Product
	Pages   []catalog.Page
}

// FromProducts synthesizes a category graph whose nodes are the category's
// products. Products repeated within the category collapse to one node.
func FromProducts(category string, products []catalog.Product, opts Options) SearchGraph {
	opts = opts.normalized()

	seen := make(map[string]bool, len(products))
	nodes := make([]Node, 0, len(products))
	for _, p := range products {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		nodes = append(nodes, Node{
			ID:    p.ID,
			Label: p.Name,
			Score: opts.Scorer(),
			Group: category,
		})
	}

	return SearchGraph{
		Nodes: nodes,
		Links: connect(nodes, opts),
	}
}

// FromPages synthesizes a category graph whose nodes are the documentation
// pages of the category's products, each carrying a back-reference to its
// product.
func FromPages(category string, items []ProductPages, opts Options) SearchGraph {
	opts = opts.normalized()

	var nodes []Node
	for _, item := range items {
		for i, page := range item.Pages {
			nodes = append(nodes, Node{
				ID:          fmt.Sprintf("%s-%d", item.Product.ID, i),
				Label:       page.Title,
				Score:       opts.Scorer(),
				Group:       category,
				ProductID:   item.Product.ID,
				ProductName: item.Product.Name,
				URL:         page.URL,
			})
		}
	}

	return SearchGraph{
		Nodes: nodes,
		Links: connect(nodes, opts),
	}
}

// connect links every node to the first Neighbors other nodes in input
// order, then collapses direction-flipped duplicates keeping the first
// occurrence.
func connect(nodes []Node, opts Options) []Link {
	var links []Link
	for _, node := range nodes {
		added := 0
		for _, other := range nodes {
			if added >= opts.Neighbors {
				break
			}
			if other.ID == node.ID {
				continue
			}
			links = append(links, Link{
				Source: node.ID,
				Target: other.ID,
				Weight: opts.Scorer(),
			})
			added++
		}
	}
	return dedupeLinks(links)
}

func dedupeLinks(links []Link) []Link {
	type pair struct{ a, b string }
	seen := make(map[pair]bool, len(links))
	out := links[:0]
	for _, link := range links {
		key := pair{link.Source, link.Target}
		if key.a > key.b {
			key.a, key.b = key.b, key.a
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, link)
	}
	return out
}
