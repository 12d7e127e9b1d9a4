// Package models defines the persisted entities shared by the scraper,
// the store and the API layer.
package models

// ChapterRef is a lightweight chapter-index entry embedded in a Work.
// The slice order is the document order of the chapter links at scrape
// time and is never reordered. Only ContentExtracted is ever mutated.
type ChapterRef struct {
	Title            string        `json:"title"`
	URL              string        `json:"url"`
	Number           ChapterNumber `json:"chapter_number"`
	ContentExtracted bool          `json:"content_extracted"`
}

// Work is a scraped novel/manga with its embedded chapter index.
// Field names on the wire match the public API contract.
type Work struct {
	ID            string       `json:"_id"`
	SourceURL     string       `json:"manga_url"`
	Title         string       `json:"manga_title"`
	CoverImageURL *string      `json:"cover_image_url"`
	CoverImageAlt *string      `json:"cover_image_alt"`
	TotalChapters int          `json:"total_chapters"`
	LastUpdated   int64        `json:"last_updated"` // unix seconds at scrape time
	Chapters      []ChapterRef `json:"chapters"`
}

// WorkSummary is the list projection of a Work (no chapter index).
type WorkSummary struct {
	ID            string  `json:"_id"`
	SourceURL     string  `json:"manga_url"`
	Title         string  `json:"manga_title"`
	CoverImageURL *string `json:"cover_image_url"`
	CoverImageAlt *string `json:"cover_image_alt"`
	TotalChapters int     `json:"total_chapters"`
	LastUpdated   int64   `json:"last_updated"`
}

// Summary returns the list projection of w.
func (w *Work) Summary() WorkSummary {
	return WorkSummary{
		ID:            w.ID,
		SourceURL:     w.SourceURL,
		Title:         w.Title,
		CoverImageURL: w.CoverImageURL,
		CoverImageAlt: w.CoverImageAlt,
		TotalChapters: w.TotalChapters,
		LastUpdated:   w.LastUpdated,
	}
}
