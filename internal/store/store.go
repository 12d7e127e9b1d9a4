// Package store is the persistence adapter: point lookups and
// append-only inserts over the works and chapters collections. Lookups
// return (nil, nil) when nothing matches.
package store

import (
	"context"

	"novelhub/pkg/models"
)

// ChapterQuery selects a single chapter by any combination of exact URL,
// owning work id and chapter number. At least one field must be set;
// the handler validates that before calling.
type ChapterQuery struct {
	URL    string
	WorkID string
	Number models.ChapterNumber // absent (zero value) means "not filtered"
}

// Store is implemented by the sqlite-backed store and by the null store
// used when the database cannot be opened. Callers never know which one
// they hold.
type Store interface {
	FindWorkByURL(ctx context.Context, url string) (*models.Work, error)
	FindWorkByID(ctx context.Context, id string) (*models.Work, error)
	ListWorks(ctx context.Context) ([]models.WorkSummary, error)
	InsertWork(ctx context.Context, w *models.Work) (string, error)

	// MarkChapterExtracted flips the content_extracted flag on the
	// work's chapter-index entry whose url matches. Unknown work or URL
	// is a no-op, not an error.
	MarkChapterExtracted(ctx context.Context, workID, chapterURL string) error

	FindChapterByURL(ctx context.Context, url string) (*models.Chapter, error)
	FindChapterByID(ctx context.Context, id string) (*models.Chapter, error)
	LookupChapter(ctx context.Context, q ChapterQuery) (*models.Chapter, error)
	ChapterIDs(ctx context.Context, workID string, minNumber, maxNumber *int64) ([]models.ChapterIDEntry, error)
	InsertChapter(ctx context.Context, ch *models.Chapter) (string, error)
}
