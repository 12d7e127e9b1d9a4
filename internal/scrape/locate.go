// Package scrape implements the extraction pipeline: locator chains over
// parsed HTML, chapter number resolution, paragraph normalization, and
// the scrape/extract operations built on top of them.
package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"novelhub/pkg/models"
)

// UnknownTitle is the sentinel used whenever no title locator succeeds.
const UnknownTitle = "Unknown Title"

// Cover is a located cover image. Alt stays nil when the img tag has no
// alt attribute.
type Cover struct {
	URL string
	Alt *string
}

// Each logical field is located by an ordered list of strategies; the
// first strategy that yields a non-empty result wins and later ones are
// never consulted.

var workTitleStrategies = []func(*goquery.Document) (string, bool){
	func(doc *goquery.Document) (string, bool) {
		t := strings.TrimSpace(doc.Find("div.post-title h1").First().Text())
		return t, t != ""
	},
}

var coverStrategies = []func(*goquery.Document) (Cover, bool){
	coverImage("div.summary_image img"),
	coverImage("div.tab-summary img"),
	coverImage("img.img-responsive, img.wp-post-image"),
}

func coverImage(selector string) func(*goquery.Document) (Cover, bool) {
	return func(doc *goquery.Document) (Cover, bool) {
		img := doc.Find(selector).First()
		src, ok := img.Attr("src")
		if !ok || src == "" {
			return Cover{}, false
		}
		c := Cover{URL: src}
		if alt, ok := img.Attr("alt"); ok {
			c.Alt = &alt
		}
		return c, true
	}
}

var chapterTitleStrategies = []func(*goquery.Document) (string, bool){
	func(doc *goquery.Document) (string, bool) {
		t := ""
		doc.Find("h2[style]").EachWithBreak(func(_ int, h *goquery.Selection) bool {
			style, _ := h.Attr("style")
			if strings.Contains(style, "text-align: center") {
				t = strings.TrimSpace(h.Text())
				return false
			}
			return true
		})
		return t, t != ""
	},
	headingText("h1.entry-title"),
	headingText("h1.chapter-title, h2.chapter-title, h3.chapter-title, h1.entry-title, h2.entry-title, h3.entry-title"),
}

func headingText(selector string) func(*goquery.Document) (string, bool) {
	return func(doc *goquery.Document) (string, bool) {
		t := strings.TrimSpace(doc.Find(selector).First().Text())
		return t, t != ""
	}
}

var contentContainerStrategies = []string{
	"div.reading-content",
	"div.entry-content, div.chapter-content, div.text-content",
}

// LocateWorkTitle returns the work title, or the sentinel when nothing
// matches.
func LocateWorkTitle(doc *goquery.Document) string {
	for _, strat := range workTitleStrategies {
		if t, ok := strat(doc); ok {
			return t
		}
	}
	return UnknownTitle
}

// LocateCover walks the cover fallback chain. ok is false when no
// strategy produced an image with a src.
func LocateCover(doc *goquery.Document) (Cover, bool) {
	for _, strat := range coverStrategies {
		if c, ok := strat(doc); ok {
			return c, true
		}
	}
	return Cover{}, false
}

var (
	refTitleNumRe = regexp.MustCompile(`chapter[- ](\d+)`)
	refURLNumRe   = regexp.MustCompile(`chapter-(\d+)`)
)

// LocateChapterRefs collects the chapter index in document order. List
// items without an anchor are skipped silently.
func LocateChapterRefs(doc *goquery.Document) []models.ChapterRef {
	var refs []models.ChapterRef
	doc.Find("li.wp-manga-chapter").Each(func(_ int, li *goquery.Selection) {
		a := li.Find("a").First()
		if a.Length() == 0 {
			return
		}
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		title := strings.TrimSpace(a.Text())
		refs = append(refs, models.ChapterRef{
			Title:  title,
			URL:    href,
			Number: refNumber(title, href),
		})
	})
	return refs
}

// refNumber extracts a chapter-index entry's number: "chapter 12" /
// "chapter-12" in the lowercased title first, then "chapter-12" in the
// URL. Absent when neither matches.
func refNumber(title, url string) models.ChapterNumber {
	if m := refTitleNumRe.FindStringSubmatch(strings.ToLower(title)); m != nil {
		n, _ := strconv.ParseInt(m[1], 10, 64)
		return models.NumberFromInt(n)
	}
	if m := refURLNumRe.FindStringSubmatch(url); m != nil {
		n, _ := strconv.ParseInt(m[1], 10, 64)
		return models.NumberFromInt(n)
	}
	return models.ChapterNumber{}
}

// LocateChapterTitle returns the chapter title, or the sentinel.
func LocateChapterTitle(doc *goquery.Document) string {
	for _, strat := range chapterTitleStrategies {
		if t, ok := strat(doc); ok {
			return t
		}
	}
	return UnknownTitle
}

// LocateSourceChapterID reads the raw chapter id the page embeds in its
// current-chapter input, if present.
func LocateSourceChapterID(doc *goquery.Document) (string, bool) {
	id, ok := doc.Find("input#wp-manga-current-chap").First().Attr("data-id")
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// LocateParagraphs finds the content container and returns its
// paragraph elements in document order, or nil when no container
// matches. When the container holds a left/right-aligned text wrapper,
// only the wrapper's paragraphs are used.
func LocateParagraphs(doc *goquery.Document) *goquery.Selection {
	var container *goquery.Selection
	for _, selector := range contentContainerStrategies {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 {
			container = sel
			break
		}
	}
	if container == nil {
		return nil
	}

	if wrapper := container.Find("div.text-right, div.text-left").First(); wrapper.Length() > 0 {
		return wrapper.Find("p")
	}
	return container.Find("p")
}
