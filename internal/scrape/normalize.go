package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const nbspMarker = "&nbsp;"

// NormalizeParagraphs turns a paragraph selection into the content
// sequence: image-only paragraphs are dropped, text is trimmed, empty
// and bare-&nbsp; paragraphs are dropped, and any remaining literal
// &nbsp; markers become plain spaces. Document order is preserved.
func NormalizeParagraphs(paragraphs *goquery.Selection) []string {
	var content []string
	if paragraphs == nil {
		return content
	}

	paragraphs.Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())

		// paragraph that only wraps an image
		if p.Find("img").Length() > 0 && text == "" {
			return
		}
		if text == "" || text == nbspMarker {
			return
		}

		content = append(content, strings.ReplaceAll(text, nbspMarker, " "))
	})
	return content
}
