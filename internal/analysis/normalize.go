// internal/analysis/normalize.go
package analysis

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var htmlTagRe = regexp.MustCompile(`<[a-zA-Z!/][^>]*>`)

// NormalizeInput prepares raw feeding input for tokenization. Text pasted
// from a web page arrives as HTML; it is converted to markdown so that tags
// and attributes never end up in the feeding log. Plain text passes through
// unchanged.
func NormalizeInput(text string) string {
	if !htmlTagRe.MatchString(text) {
		return text
	}
	markdown, err := htmltomarkdown.ConvertString(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(markdown)
}
