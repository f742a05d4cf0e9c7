package catalog

import (
	"fmt"
	"strings"
)

var fallbackProducts = map[string][]Product{
	"frontend": {
		{ID: "react", Name: "React", Summary: "A JavaScript library for building user interfaces", DocsURL: "https://react.dev"},
		{ID: "vue", Name: "Vue.js", Summary: "Progressive JavaScript framework", DocsURL: "https://vuejs.org"},
		{ID: "svelte", Name: "Svelte", Summary: "Cybernetically enhanced web apps", DocsURL: "https://svelte.dev"},
		{ID: "nextjs", Name: "Next.js", Summary: "The React framework for production", DocsURL: "https://nextjs.org"},
	},
	"authentication": {
		{ID: "auth0", Name: "Auth0", Summary: "Identity platform for developers", DocsURL: "https://auth0.com"},
		{ID: "firebase-auth", Name: "Firebase Auth", Summary: "Google's authentication service", DocsURL: "https://firebase.google.com"},
		{ID: "supabase-auth", Name: "Supabase Auth", Summary: "Open source authentication", DocsURL: "https://supabase.com"},
		{ID: "clerk", Name: "Clerk", Summary: "Complete user management", DocsURL: "https://clerk.com"},
	},
	"database": {
		{ID: "postgresql", Name: "PostgreSQL", Summary: "Advanced open source database", DocsURL: "https://www.postgresql.org"},
		{ID: "mongodb", Name: "MongoDB", Summary: "Document database", DocsURL: "https://www.mongodb.com"},
		{ID: "redis", Name: "Redis", Summary: "In-memory data structure store", DocsURL: "https://redis.io"},
		{ID: "supabase", Name: "Supabase", Summary: "Open source Firebase alternative", DocsURL: "https://supabase.com"},
	},
	"deployment": {
		{ID: "vercel", Name: "Vercel", Summary: "Frontend cloud platform", DocsURL: "https://vercel.com"},
		{ID: "netlify", Name: "Netlify", Summary: "Web development platform", DocsURL: "https://www.netlify.com"},
		{ID: "railway", Name: "Railway", Summary: "Deploy anything to the cloud", DocsURL: "https://railway.app"},
		{ID: "render", Name: "Render", Summary: "Cloud platform for modern apps", DocsURL: "https://render.com"},
	},
	"payments": {
		{ID: "stripe", Name: "Stripe", Summary: "Online payment processing", DocsURL: "https://stripe.com"},
		{ID: "paypal", Name: "PayPal", Summary: "Digital payments platform", DocsURL: "https://www.paypal.com"},
		{ID: "square", Name: "Square", Summary: "Payment and point-of-sale solutions", DocsURL: "https://squareup.com"},
	},
}

var fallbackPages = map[string][]Page{
	"react": {
		{Title: "Getting Started", URL: "https://react.dev/learn"},
		{Title: "Components and Props", URL: "https://react.dev/learn/passing-props-to-a-component"},
		{Title: "State Management", URL: "https://react.dev/learn/state-a-components-memory"},
		{Title: "Hooks Reference", URL: "https://react.dev/reference/react"},
	},
	"nextjs": {
		{Title: "Quick Start", URL: "https://nextjs.org/docs/app"},
		{Title: "Routing", URL: "https://nextjs.org/docs/app/building-your-application/routing"},
		{Title: "Data Fetching", URL: "https://nextjs.org/docs/app/building-your-application/data-fetching"},
		{Title: "Deployment", URL: "https://nextjs.org/docs/app/building-your-application/deploying"},
	},
	"auth0": {
		{Title: "Quick Start", URL: "https://auth0.com/docs/quickstart/webapp"},
		{Title: "Authentication API", URL: "https://auth0.com/docs/api/authentication"},
		{Title: "Management API", URL: "https://auth0.com/docs/api/management/v2"},
		{Title: "SDKs", URL: "https://auth0.com/docs/libraries"},
	},
	"stripe": {
		{Title: "Getting Started", URL: "https://stripe.com/docs/stripe-js"},
		{Title: "Payment Intents", URL: "https://stripe.com/docs/api/payment_intents"},
		{Title: "Webhooks", URL: "https://stripe.com/docs/webhooks"},
		{Title: "Testing", URL: "https://stripe.com/docs/testing"},
	},
	"postgresql": {
		{Title: "Documentation", URL: "https://www.postgresql.org/docs/"},
		{Title: "Tutorial", URL: "https://www.postgresql.org/docs/current/tutorial.html"},
		{Title: "SQL Reference", URL: "https://www.postgresql.org/docs/current/sql.html"},
		{Title: "Performance Tips", URL: "https://wiki.postgresql.org/wiki/Performance_Optimization"},
	},
	"vercel": {
		{Title: "Deploying", URL: "https://vercel.com/docs/deployments"},
		{Title: "Environment Variables", URL: "https://vercel.com/docs/projects/environment-variables"},
		{Title: "Functions", URL: "https://vercel.com/docs/functions"},
		{Title: "Edge Runtime", URL: "https://vercel.com/docs/functions/edge-functions"},
	},
}

// FallbackProducts returns the static product set for a category. Lookup is
// case-insensitive; an unknown category yields a single placeholder product.
func FallbackProducts(category string) []Product {
	if products, ok := fallbackProducts[strings.ToLower(category)]; ok {
		out := make([]Product, len(products))
		copy(out, products)
		return out
	}
	return []Product{
		{
			ID:      "placeholder",
			Name:    fmt.Sprintf("%s Solution", category),
			Summary: fmt.Sprintf("Popular %s option", category),
		},
	}
}

// FallbackPages returns the static page set for a product id. An unknown id
// yields three generic documentation links derived from the id.
func FallbackPages(productID string) []Page {
	if pages, ok := fallbackPages[productID]; ok {
		out := make([]Page, len(pages))
		copy(out, pages)
		return out
	}
	return []Page{
		{Title: "Documentation", URL: fmt.Sprintf("https://%s.com/docs", productID)},
		{Title: "Getting Started", URL: fmt.Sprintf("https://%s.com/quickstart", productID)},
		{Title: "API Reference", URL: fmt.Sprintf("https://%s.com/api", productID)},
	}
}
