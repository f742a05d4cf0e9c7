package stream

import (
	"reflect"
	"testing"

	"github.com/stackscout/backend/pkg/catalog"
	"github.com/stackscout/backend/pkg/graph"
)

func TestReducer_ProductInsertIsIdempotent(t *testing.T) {
	r := NewReducer()
	event := ProductFound("frontend", catalog.Product{ID: "react", Name: "React"})

	r.Apply(event)
	once := r.Products()

	r.Apply(event)
	twice := r.Products()

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("state changed on duplicate product event: %+v vs %+v", once, twice)
	}
	if len(twice) != 1 {
		t.Fatalf("expected 1 tracked product, got %d", len(twice))
	}
}

func TestReducer_PreservesFirstSeenOrder(t *testing.T) {
	r := NewReducer()
	r.Apply(ProductFound("frontend", catalog.Product{ID: "react", Name: "React"}))
	r.Apply(ProductFound("database", catalog.Product{ID: "postgresql", Name: "PostgreSQL"}))
	r.Apply(ProductFound("frontend", catalog.Product{ID: "vue", Name: "Vue.js"}))

	products := r.Products()
	wantOrder := []string{"react", "postgresql", "vue"}
	if len(products) != len(wantOrder) {
		t.Fatalf("expected %d products, got %d", len(wantOrder), len(products))
	}
	for i, want := range wantOrder {
		if products[i].Product.ID != want {
			t.Fatalf("position %d: got %q, want %q", i, products[i].Product.ID, want)
		}
	}
}

func TestReducer_DetailAppendsToTrackedProduct(t *testing.T) {
	r := NewReducer()
	r.Apply(ProductFound("frontend", catalog.Product{ID: "react", Name: "React"}))
	r.Apply(ProductDetail("react", catalog.Page{Title: "Learn", URL: "https://react.dev/learn"}))
	r.Apply(ProductDetail("react", catalog.Page{Title: "Reference", URL: "https://react.dev/reference"}))

	products := r.Products()
	if len(products[0].Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(products[0].Pages))
	}
}

func TestReducer_DetailForUnknownProductIsIgnored(t *testing.T) {
	r := NewReducer()
	r.Apply(ProductDetail("ghost", catalog.Page{Title: "Nope", URL: "https://ghost.dev"}))

	if len(r.Products()) != 0 {
		t.Fatal("detail for unknown product must not create state")
	}
}

func TestReducer_GraphReplacesPerCategory(t *testing.T) {
	r := NewReducer()
	first := graph.SearchGraph{Nodes: []graph.Node{{ID: "a", Label: "A"}}}
	second := graph.SearchGraph{Nodes: []graph.Node{{ID: "b", Label: "B"}, {ID: "c", Label: "C"}}}

	r.Apply(Graph("frontend", first))
	r.Apply(Graph("frontend", second))

	got, ok := r.Graph("frontend")
	if !ok {
		t.Fatal("graph missing")
	}
	if len(got.Nodes) != 2 || got.Nodes[0].ID != "b" {
		t.Fatalf("graph was not replaced: %+v", got)
	}
}

func TestReducer_DoneIsTerminal(t *testing.T) {
	r := NewReducer()
	r.Apply(ProductFound("frontend", catalog.Product{ID: "react", Name: "React"}))
	r.Apply(Done())
	r.Apply(ProductFound("frontend", catalog.Product{ID: "vue", Name: "Vue.js"}))

	if !r.Done() {
		t.Fatal("reducer should be done")
	}
	if len(r.Products()) != 1 {
		t.Fatalf("events after done must be ignored, got %d products", len(r.Products()))
	}
}

func TestReducer_StatusAndErrorAppendTranscript(t *testing.T) {
	r := NewReducer()
	r.Apply(Status("Analyzing..."))
	r.Apply(Categories([]string{"frontend", "deployment"}))
	r.Apply(Error("Something degraded"))

	transcript := r.Transcript()
	if len(transcript) != 3 {
		t.Fatalf("expected 3 transcript entries, got %d", len(transcript))
	}
	if transcript[0].Content != "Analyzing..." {
		t.Fatalf("unexpected first entry: %+v", transcript[0])
	}
	for _, entry := range transcript {
		if entry.ID == "" || entry.Role != "assistant" {
			t.Fatalf("malformed transcript entry: %+v", entry)
		}
	}
}
