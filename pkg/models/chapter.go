package models

// Chapter is a single chapter's extracted content. Chapters are stored
// independently from their Work and are immutable after insert.
type Chapter struct {
	ID              string        `json:"_id"`
	WorkID          string        `json:"manga_id,omitempty"` // empty when the caller did not supply a work id
	ChapterURL      string        `json:"chapter_url"`
	Title           string        `json:"title"`
	SourceChapterID string        `json:"chapter_id,omitempty"` // raw data-id scraped from the page, opaque
	Number          ChapterNumber `json:"chapter_number"`
	IndexPosition   *int          `json:"chapter_index"` // 0-based position in the Work's index, batch only
	Content         []string      `json:"content"`
	ParagraphCount  int           `json:"paragraph_count"`
	ExtractedAt     int64         `json:"date_extracted"` // unix seconds
}

// ChapterIDEntry is the trimmed row returned by the chapter-id listing.
type ChapterIDEntry struct {
	ChapterID string        `json:"chapter_id"`
	Number    ChapterNumber `json:"chapter_number"`
	Title     string        `json:"title"`
	URL       string        `json:"url"`
}
