// Package stream owns the event protocol between the build pipeline and the
// browser client: the newline-delimited JSON channel on the server side and
// the state reducer on the consumer side.
package stream

import (
	"github.com/stackscout/backend/pkg/catalog"
	"github.com/stackscout/backend/pkg/graph"
)

// Event types carried on the stream.
const (
	EventStatus        = "status"
	EventCategories    = "categories"
	EventProduct       = "product"
	EventProductDetail = "product-detail"
	EventGraph         = "graph"
	EventError         = "error"
	EventDone          = "done"
)

// Event is one self-delimited unit on the stream. Exactly the fields for its
// Type are set; the rest are omitted from the wire format.
type Event struct {
	Type       string             `json:"type"`
	Message    string             `json:"message,omitempty"`
	Categories []string           `json:"categories,omitempty"`
	Category   string             `json:"category,omitempty"`
	Product    *catalog.Product   `json:"product,omitempty"`
	ProductID  string             `json:"productId,omitempty"`
	Page       *catalog.Page      `json:"page,omitempty"`
	Graph      *graph.SearchGraph `json:"graph,omitempty"`
}

// Status reports pipeline progress for the chat transcript.
func Status(message string) Event {
	return Event{Type: EventStatus, Message: message}
}

// Categories carries the full ordered category list.
func Categories(categories []string) Event {
	return Event{Type: EventCategories, Categories: categories}
}

// ProductFound announces one product discovered under a category.
func ProductFound(category string, product catalog.Product) Event {
	return Event{Type: EventProduct, Category: category, Product: &product}
}

// ProductDetail announces one documentation page for an already-announced
// product.
func ProductDetail(productID string, page catalog.Page) Event {
	return Event{Type: EventProductDetail, ProductID: productID, Page: &page}
}

// Graph carries the similarity graph for one category.
func Graph(category string, g graph.SearchGraph) Event {
	return Event{Type: EventGraph, Category: category, Graph: &g}
}

// Error reports a pipeline failure after the stream has been committed.
func Error(message string) Event {
	return Event{Type: EventError, Message: message}
}

// Done is the terminal event; nothing follows it.
func Done() Event {
	return Event{Type: EventDone}
}
