package stream

import (
	"fmt"

	"github.com/stackscout/backend/internal/util"
	"github.com/stackscout/backend/pkg/catalog"
	"github.com/stackscout/backend/pkg/graph"
)

// TranscriptEntry is one assistant message in the chat transcript.
type TranscriptEntry struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ProductState is a tracked product with its accumulated pages.
type ProductState struct {
	Product catalog.Product `json:"product"`
	Pages   []catalog.Page  `json:"pages"`
}

// Reducer folds the event stream into the two pieces of client state: the
// chat transcript and the product accumulator. Deterministic given the event
// sequence.
type Reducer struct {
	transcript []TranscriptEntry
	products   []*ProductState
	byID       map[string]*ProductState
	graphs     map[string]graph.SearchGraph
	done       bool
}

// NewReducer returns an empty reducer.
func NewReducer() *Reducer {
	return &Reducer{
		byID:   make(map[string]*ProductState),
		graphs: make(map[string]graph.SearchGraph),
	}
}

// Apply folds one event into the state. Events after done are ignored, as
// are detail events for products that were never announced.
func (r *Reducer) Apply(event Event) {
	if r.done {
		return
	}

	switch event.Type {
	case EventStatus:
		r.appendTranscript(event.Message)

	case EventCategories:
		r.appendTranscript(fmt.Sprintf("Searching %d categories...", len(event.Categories)))

	case EventProduct:
		if event.Product == nil {
			return
		}
		if _, tracked := r.byID[event.Product.ID]; tracked {
			return
		}
		state := &ProductState{Product: *event.Product, Pages: []catalog.Page{}}
		r.products = append(r.products, state)
		r.byID[event.Product.ID] = state

	case EventProductDetail:
		if event.Page == nil {
			return
		}
		state, tracked := r.byID[event.ProductID]
		if !tracked {
			return
		}
		state.Pages = append(state.Pages, *event.Page)

	case EventGraph:
		if event.Graph == nil {
			return
		}
		r.graphs[event.Category] = *event.Graph

	case EventError:
		r.appendTranscript(event.Message)

	case EventDone:
		r.done = true
	}
}

func (r *Reducer) appendTranscript(content string) {
	r.transcript = append(r.transcript, TranscriptEntry{
		ID:      util.NewID(),
		Role:    "assistant",
		Content: content,
	})
}

// Transcript returns the accumulated chat transcript.
func (r *Reducer) Transcript() []TranscriptEntry {
	return r.transcript
}

// Products returns tracked products in first-seen order.
func (r *Reducer) Products() []ProductState {
	out := make([]ProductState, len(r.products))
	for i, p := range r.products {
		out[i] = *p
	}
	return out
}

// Graph returns the stored graph for a category, if any.
func (r *Reducer) Graph(category string) (graph.SearchGraph, bool) {
	g, ok := r.graphs[category]
	return g, ok
}

// Done reports whether the terminal event has been seen.
func (r *Reducer) Done() bool {
	return r.done
}
