package scrape

import (
	"context"
	"errors"
	"log"
	"time"

	"novelhub/internal/notify"
)

// ErrWorkNotFound is returned when a batch extraction targets an unknown
// work id.
var ErrWorkNotFound = errors.New("work not found")

type BatchResult struct {
	SuccessCount int `json:"success_count"`
	FailureCount int `json:"failure_count"`
}

// ExtractAll walks the work's chapter index in order and extracts every
// chapter not yet flagged. limit > 0 truncates the index to its first
// limit entries before skipping. Extraction is strictly sequential with
// a fixed pause after each attempted chapter; one failed chapter is
// counted and the loop moves on.
func (s *Service) ExtractAll(ctx context.Context, workID string, limit int) (*BatchResult, error) {
	w, err := s.store.FindWorkByID(ctx, workID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrWorkNotFound
	}

	refs := w.Chapters
	log.Printf("[batch] %d chapters indexed for %q", len(refs), w.Title)
	if limit > 0 && limit < len(refs) {
		log.Printf("[batch] limiting extraction to %d chapters", limit)
		refs = refs[:limit]
	}

	res := &BatchResult{}
	for i, ref := range refs {
		if ref.ContentExtracted {
			log.Printf("[batch] chapter %q already extracted, skipping", ref.Title)
			continue
		}

		log.Printf("[batch] [%d/%d] extracting %q", i+1, len(refs), ref.Title)
		pos := i
		if _, err := s.ExtractChapter(ctx, workID, ref.URL, &pos); err != nil {
			log.Printf("[batch] extract %s failed: %v", ref.URL, err)
			res.FailureCount++
		} else {
			res.SuccessCount++
		}

		// politeness pause toward the upstream source
		time.Sleep(s.batchDelay)
	}

	log.Printf("[batch] done: %d ok, %d failed", res.SuccessCount, res.FailureCount)
	s.emit(notify.Event{
		Type:         notify.EventBatchFinished,
		WorkID:       workID,
		SuccessCount: res.SuccessCount,
		FailureCount: res.FailureCount,
		At:           time.Now().Unix(),
	})
	return res, nil
}
