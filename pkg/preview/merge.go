package preview

import (
	"github.com/stackscout/backend/pkg/catalog"
)

// MergeProduct fills a product's optional fields from a preview. Existing
// non-empty fields are never overwritten by empty preview values.
func MergeProduct(product catalog.Product, pv Preview) catalog.Product {
	if product.Description == "" {
		product.Description = pv.Description
	}
	if product.Image == "" {
		product.Image = pv.Image
	}
	if product.Site == "" {
		product.Site = pv.Site
	}
	return product
}

// MergePage fills a page's optional fields from a preview, same rules as
// MergeProduct. The page title is only taken from the preview when the page
// has none of its own.
func MergePage(page catalog.Page, pv Preview) catalog.Page {
	if page.Title == "" {
		page.Title = pv.Title
	}
	if page.Description == "" {
		page.Description = pv.Description
	}
	if page.Image == "" {
		page.Image = pv.Image
	}
	if page.Site == "" {
		page.Site = pv.Site
	}
	return page
}
