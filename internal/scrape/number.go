package scrape

import (
	"net/url"
	"regexp"

	"novelhub/pkg/models"
)

// Candidate sources for the canonical chapter number, in strict priority
// order. The percent-encoded form is the Arabic word for "chapter"
// followed by a dash and digits, as it appears in the source's URLs.
var (
	encodedMarkerRe = regexp.MustCompile(`%d8%a7%d9%84%d9%81%d8%b5%d9%84-(\d+)`)
	decodedMarkerRe = regexp.MustCompile(`الفصل-(\d+)`)
	chapterURLRe    = regexp.MustCompile(`chapter-(\d+)`)
	digitRunRe      = regexp.MustCompile(`(\d+)`)
	chapterTextRe   = regexp.MustCompile(`(?i)chapter\s*(\d+)`)
)

// ResolveChapterNumber tries each source in order and takes the first
// match: the encoded marker in the URL, the decoded marker in the
// percent-decoded URL, a generic chapter-<n> URL token, the first digit
// run in the chapter title, and finally "chapter <n>" anywhere in the
// page text. The captured digits are parsed as an integer; if that
// somehow fails the raw capture is kept. Absent when nothing matches.
func ResolveChapterNumber(chapterURL, title, pageText string) models.ChapterNumber {
	if m := encodedMarkerRe.FindStringSubmatch(chapterURL); m != nil {
		return models.NumberFromString(m[1])
	}

	// covers URLs that arrive already percent-decoded
	decoded := chapterURL
	if d, err := url.PathUnescape(chapterURL); err == nil {
		decoded = d
	}
	if m := decodedMarkerRe.FindStringSubmatch(decoded); m != nil {
		return models.NumberFromString(m[1])
	}

	if m := chapterURLRe.FindStringSubmatch(chapterURL); m != nil {
		return models.NumberFromString(m[1])
	}

	if m := digitRunRe.FindStringSubmatch(title); m != nil {
		return models.NumberFromString(m[1])
	}

	if m := chapterTextRe.FindStringSubmatch(pageText); m != nil {
		return models.NumberFromString(m[1])
	}

	return models.ChapterNumber{}
}
