package store

import (
	"context"

	"github.com/google/uuid"

	"novelhub/pkg/models"
)

// Null is the stand-in store used when the database cannot be opened, so
// the process still starts and serves empty results. Lookups find
// nothing, inserts accept and discard, the flag update is a no-op.
type Null struct{}

func NewNull() Null { return Null{} }

func (Null) FindWorkByURL(ctx context.Context, url string) (*models.Work, error) { return nil, nil }
func (Null) FindWorkByID(ctx context.Context, id string) (*models.Work, error)  { return nil, nil }

func (Null) ListWorks(ctx context.Context) ([]models.WorkSummary, error) {
	return []models.WorkSummary{}, nil
}

func (Null) InsertWork(ctx context.Context, w *models.Work) (string, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return w.ID, nil
}

func (Null) MarkChapterExtracted(ctx context.Context, workID, chapterURL string) error { return nil }

func (Null) FindChapterByURL(ctx context.Context, url string) (*models.Chapter, error) {
	return nil, nil
}

func (Null) FindChapterByID(ctx context.Context, id string) (*models.Chapter, error) {
	return nil, nil
}

func (Null) LookupChapter(ctx context.Context, q ChapterQuery) (*models.Chapter, error) {
	return nil, nil
}

func (Null) ChapterIDs(ctx context.Context, workID string, minNumber, maxNumber *int64) ([]models.ChapterIDEntry, error) {
	return []models.ChapterIDEntry{}, nil
}

func (Null) InsertChapter(ctx context.Context, ch *models.Chapter) (string, error) {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	return ch.ID, nil
}
