package corpus

import (
	"io"
	"regexp"
	"strings"

	"github.com/alexanderramin/ulpiano/internal/domain"
	"golang.org/x/net/html"
)

// digestCitation matches canonical digest locators such as "Dig.1.1.0." or
// "Dig.41.2.3.1".
var digestCitation = regexp.MustCompile(`Dig\.\d+\.\d+\.\d+\.?\d*`)

// ParseDigestText splits raw digest text on its citation markers. Each
// fragment becomes an excerpt whose SourceText is the text up to the next
// marker. Text before the first marker and empty fragments are dropped.
func ParseDigestText(text string) []domain.ExcerptEntry {
	locs := digestCitation.FindAllStringIndex(text, -1)
	entries := make([]domain.ExcerptEntry, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := strings.TrimSpace(text[loc[1]:end])
		if body == "" {
			continue
		}
		entries = append(entries, domain.ExcerptEntry{
			Citation:   strings.TrimSpace(text[loc[0]:loc[1]]),
			SourceText: body,
		})
	}
	return entries
}

// ExtractHTMLText returns the visible text of an HTML document, one line per
// text node, skipping script and style content.
func ExtractHTMLText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				b.WriteString(t)
				b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String(), nil
}
