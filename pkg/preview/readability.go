package preview

import (
	"io"
	"net/url"
	"strings"

	"codeberg.org/readeck/go-readability/v2"
)

// fromReader runs readability extraction and renders the article as plain
// text. Split out so the excerpt path stays testable without real HTML.
func fromReader(r io.Reader, u *url.URL) (string, error) {
	article, err := readability.FromReader(r, u)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	if err := article.RenderText(&builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}
