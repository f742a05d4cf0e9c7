// Package classify wraps the language-model collaborator behind the two
// operations the pipeline needs: category classification and relevant-page
// selection. Classification is the one fatal dependency of a build; page
// selection degrades to a deterministic fallback.
package classify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stackscout/backend/internal/util"
	"github.com/stackscout/backend/pkg/ai"
	"github.com/stackscout/backend/pkg/logger"
)

// MaxRelevantPages is the selection size for the relevance filter; candidate
// sets at or below this size skip the model call entirely.
const MaxRelevantPages = 5

const (
	classifyRetries = 2
	classifyTimeout = 60 * time.Second
)

// CategoriesResponse is the structured output schema for classification.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// RelevantPagesResponse is the structured output schema for page selection.
type RelevantPagesResponse struct {
	URLs []string `json:"urls"`
}

// Classifier performs model-backed classification.
type Classifier struct {
	aiClient ai.Client
}

// NewClassifier creates a classifier on top of an AI client.
func NewClassifier(aiClient ai.Client) *Classifier {
	return &Classifier{aiClient: aiClient}
}

// Categories asks the model for the ordered technology categories matching a
// project description. This is the only collaborator call without a safe
// fallback; errors propagate to the orchestrator.
func (c *Classifier) Categories(ctx context.Context, prompt string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	response, err := util.RetryWithContext(ctx, classifyRetries,
		func(ctx context.Context) (CategoriesResponse, error) {
			var out CategoriesResponse
			err := c.aiClient.GenerateCompletionWithFormat(
				ctx,
				"categories",
				"Broad technology categories for a software project",
				fmt.Sprintf(categoriesPrompt, prompt),
				&out,
			)
			return out, err
		})
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	categories := make([]string, 0, len(response.Categories))
	for _, category := range response.Categories {
		category = strings.TrimSpace(category)
		if category != "" {
			categories = append(categories, category)
		}
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("classification returned no categories")
	}
	return categories, nil
}

// RelevantPages narrows a candidate URL set down to at most MaxRelevantPages
// entries. Small candidate sets are returned unchanged without a model call.
// Model output is filtered to URLs present in the input; on failure or an
// empty filtered result the first MaxRelevantPages candidates are returned.
func (c *Classifier) RelevantPages(ctx context.Context, prompt string, candidates []string) []string {
	if len(candidates) <= MaxRelevantPages {
		return candidates
	}

	var out RelevantPagesResponse
	err := c.aiClient.GenerateCompletionWithFormat(
		ctx,
		"relevant_pages",
		"Documentation pages most relevant to the project",
		fmt.Sprintf(relevantPagesPrompt, prompt, strings.Join(candidates, "\n"), MaxRelevantPages),
		&out,
	)
	if err != nil {
		logger.Warn("Relevant-page selection failed, keeping first candidates", "err", err)
		return candidates[:MaxRelevantPages]
	}

	known := make(map[string]bool, len(candidates))
	for _, url := range candidates {
		known[url] = true
	}

	// The model may hallucinate URLs outside the candidate set.
	selected := make([]string, 0, MaxRelevantPages)
	for _, url := range out.URLs {
		url = strings.TrimSpace(url)
		if known[url] && len(selected) < MaxRelevantPages {
			selected = append(selected, url)
		}
	}
	if len(selected) == 0 {
		return candidates[:MaxRelevantPages]
	}
	return selected
}
