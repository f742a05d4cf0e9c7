package graph

import (
	"fmt"
	"testing"

	"github.com/stackscout/backend/pkg/catalog"
)

func fixedScorer() float64 {
	return 0.5
}

func testProducts(n int) []catalog.Product {
	products := make([]catalog.Product, n)
	for i := range products {
		products[i] = catalog.Product{
			ID:   fmt.Sprintf("product-%d", i),
			Name: fmt.Sprintf("Product %d", i),
		}
	}
	return products
}

func TestFromProducts_NoFlippedDuplicateLinks(t *testing.T) {
	g := FromProducts("frontend", testProducts(8), Options{Scorer: fixedScorer})

	seen := make(map[string]bool)
	for _, link := range g.Links {
		forward := link.Source + "->" + link.Target
		backward := link.Target + "->" + link.Source
		if seen[forward] || seen[backward] {
			t.Fatalf("duplicate edge between %s and %s", link.Source, link.Target)
		}
		seen[forward] = true
	}
}

func TestFromProducts_DegreeBound(t *testing.T) {
	const neighbors = 3
	g := FromProducts("frontend", testProducts(10), Options{
		Neighbors: neighbors,
		Scorer:    fixedScorer,
	})

	outDegree := make(map[string]int)
	for _, link := range g.Links {
		outDegree[link.Source]++
	}
	for id, degree := range outDegree {
		if degree > neighbors {
			t.Fatalf("node %s has out-degree %d, want <= %d", id, degree, neighbors)
		}
	}
}

func TestFromProducts_DeterministicWithFixedScorer(t *testing.T) {
	a := FromProducts("db", testProducts(6), Options{Scorer: fixedScorer})
	b := FromProducts("db", testProducts(6), Options{Scorer: fixedScorer})

	if len(a.Nodes) != len(b.Nodes) || len(a.Links) != len(b.Links) {
		t.Fatalf("graphs differ in size: %d/%d nodes, %d/%d links",
			len(a.Nodes), len(b.Nodes), len(a.Links), len(b.Links))
	}
	for i := range a.Links {
		if a.Links[i] != b.Links[i] {
			t.Fatalf("link %d differs: %+v vs %+v", i, a.Links[i], b.Links[i])
		}
	}
}

func TestFromProducts_CollapsesRepeatedIDs(t *testing.T) {
	products := []catalog.Product{
		{ID: "react", Name: "React"},
		{ID: "react", Name: "React"},
		{ID: "vue", Name: "Vue.js"},
	}
	g := FromProducts("frontend", products, Options{Scorer: fixedScorer})

	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 nodes after collapse, got %d", len(g.Nodes))
	}
}

func TestFromProducts_NodeMetadata(t *testing.T) {
	g := FromProducts("frontend", testProducts(1), Options{Scorer: fixedScorer})

	if len(g.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(g.Nodes))
	}
	node := g.Nodes[0]
	if node.ID != "product-0" || node.Label != "Product 0" || node.Group != "frontend" {
		t.Fatalf("unexpected node: %+v", node)
	}
	if len(g.Links) != 0 {
		t.Fatalf("single node should have no links, got %d", len(g.Links))
	}
}

func TestFromPages_NodesCarryProductBackReference(t *testing.T) {
	items := []ProductPages{
		{
			Product: catalog.Product{ID: "react", Name: "React"},
			Pages: []catalog.Page{
				{Title: "Getting Started", URL: "https://react.dev/learn"},
				{Title: "Hooks", URL: "https://react.dev/reference/react"},
			},
		},
	}
	g := FromPages("frontend", items, Options{Scorer: fixedScorer})

	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(g.Nodes))
	}
	for i, node := range g.Nodes {
		if node.ProductID != "react" || node.ProductName != "React" {
			t.Fatalf("node %d missing product back-reference: %+v", i, node)
		}
		if node.URL == "" {
			t.Fatalf("node %d missing url", i)
		}
		wantID := fmt.Sprintf("react-%d", i)
		if node.ID != wantID {
			t.Fatalf("node id %q, want %q", node.ID, wantID)
		}
	}
}

func TestFromPages_EmptyInput(t *testing.T) {
	g := FromPages("frontend", nil, Options{Scorer: fixedScorer})
	if len(g.Nodes) != 0 || len(g.Links) != 0 {
		t.Fatalf("expected empty graph, got %d nodes %d links", len(g.Nodes), len(g.Links))
	}
}
