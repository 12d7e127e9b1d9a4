package scrape

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/PuerkitoBio/goquery"

	"novelhub/internal/fetch"
	"novelhub/internal/notify"
	"novelhub/internal/store"
	"novelhub/pkg/models"
)

// Service runs the scrape and extract operations against a store. All
// operations are idempotent on their URL key: a second call for the same
// URL returns the stored record instead of re-scraping.
type Service struct {
	store   store.Store
	fetcher *fetch.Client
	hub     *notify.Hub // optional, nil when no websocket hub is wired

	// batchDelay is the politeness pause between batch items.
	batchDelay time.Duration
}

func NewService(st store.Store, fetcher *fetch.Client, hub *notify.Hub) *Service {
	return &Service{
		store:      st,
		fetcher:    fetcher,
		hub:        hub,
		batchDelay: 2 * time.Second,
	}
}

// ScrapeWork fetches a work's listing page and stores its metadata and
// chapter index. If the URL was scraped before, the existing record is
// returned unchanged.
func (s *Service) ScrapeWork(ctx context.Context, sourceURL string) (*models.Work, error) {
	existing, err := s.store.FindWorkByURL(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Printf("[scrape] work already stored for %s (id %s)", sourceURL, existing.ID)
		return existing, nil
	}

	body, err := s.fetcher.Get(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	refs := LocateChapterRefs(doc)
	if refs == nil {
		refs = []models.ChapterRef{}
	}

	w := &models.Work{
		SourceURL:     sourceURL,
		Title:         LocateWorkTitle(doc),
		TotalChapters: len(refs),
		LastUpdated:   time.Now().Unix(),
		Chapters:      refs,
	}
	if cover, ok := LocateCover(doc); ok {
		w.CoverImageURL = &cover.URL
		w.CoverImageAlt = cover.Alt
	}

	if _, err := s.store.InsertWork(ctx, w); err != nil {
		return nil, err
	}
	log.Printf("[scrape] stored work %q with %d chapters (id %s)", w.Title, w.TotalChapters, w.ID)

	s.emit(notify.Event{Type: notify.EventWorkScraped, WorkID: w.ID, At: time.Now().Unix()})
	return w, nil
}

// ExtractChapter fetches a chapter page, extracts its content and stores
// it. A chapter already stored for the URL is returned as-is, but the
// parent work's index flag is re-marked anyway, which repairs a prior
// partial failure where the chapter was stored and the flag update lost.
func (s *Service) ExtractChapter(ctx context.Context, workID, chapterURL string, indexPos *int) (*models.Chapter, error) {
	existing, err := s.store.FindChapterByURL(ctx, chapterURL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Printf("[scrape] chapter already stored for %s (id %s)", chapterURL, existing.ID)
		if workID != "" {
			if err := s.store.MarkChapterExtracted(ctx, workID, chapterURL); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}

	body, err := s.fetcher.Get(ctx, chapterURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := LocateChapterTitle(doc)
	content := NormalizeParagraphs(LocateParagraphs(doc))
	if content == nil {
		content = []string{}
	}

	ch := &models.Chapter{
		WorkID:         workID,
		ChapterURL:     chapterURL,
		Title:          title,
		Number:         ResolveChapterNumber(chapterURL, title, doc.Text()),
		IndexPosition:  indexPos,
		Content:        content,
		ParagraphCount: len(content),
		ExtractedAt:    time.Now().Unix(),
	}
	if id, ok := LocateSourceChapterID(doc); ok {
		ch.SourceChapterID = id
	}

	if _, err := s.store.InsertChapter(ctx, ch); err != nil {
		return nil, err
	}
	if workID != "" {
		if err := s.store.MarkChapterExtracted(ctx, workID, chapterURL); err != nil {
			return nil, err
		}
	}
	log.Printf("[scrape] stored chapter %q with %d paragraphs (id %s)", ch.Title, ch.ParagraphCount, ch.ID)

	s.emit(notify.Event{Type: notify.EventChapterExtracted, WorkID: workID, ChapterID: ch.ID, ChapterURL: chapterURL, At: time.Now().Unix()})
	return ch, nil
}

func (s *Service) emit(ev notify.Event) {
	if s.hub != nil {
		s.hub.Broadcast(ev)
	}
}
