package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novelhub/internal/fetch"
	"novelhub/internal/store"
	"novelhub/pkg/models"
)

// fakeStore is an in-memory store keyed the same way the sqlite one is.
type fakeStore struct {
	works      map[string]*models.Work    // by id
	chapters   map[string]*models.Chapter // by url
	marks      []string                   // "workID url" in call order
	workSeq    int
	chapterSeq int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		works:    map[string]*models.Work{},
		chapters: map[string]*models.Chapter{},
	}
}

func (f *fakeStore) FindWorkByURL(_ context.Context, url string) (*models.Work, error) {
	for _, w := range f.works {
		if w.SourceURL == url {
			return w, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindWorkByID(_ context.Context, id string) (*models.Work, error) {
	return f.works[id], nil
}

func (f *fakeStore) ListWorks(_ context.Context) ([]models.WorkSummary, error) {
	out := []models.WorkSummary{}
	for _, w := range f.works {
		out = append(out, w.Summary())
	}
	return out, nil
}

func (f *fakeStore) InsertWork(_ context.Context, w *models.Work) (string, error) {
	if w.ID == "" {
		f.workSeq++
		w.ID = fmt.Sprintf("work-%d", f.workSeq)
	}
	f.works[w.ID] = w
	return w.ID, nil
}

func (f *fakeStore) MarkChapterExtracted(_ context.Context, workID, chapterURL string) error {
	f.marks = append(f.marks, workID+" "+chapterURL)
	w, ok := f.works[workID]
	if !ok {
		return nil
	}
	for i := range w.Chapters {
		if w.Chapters[i].URL == chapterURL {
			w.Chapters[i].ContentExtracted = true
		}
	}
	return nil
}

func (f *fakeStore) FindChapterByURL(_ context.Context, url string) (*models.Chapter, error) {
	return f.chapters[url], nil
}

func (f *fakeStore) FindChapterByID(_ context.Context, id string) (*models.Chapter, error) {
	for _, ch := range f.chapters {
		if ch.ID == id {
			return ch, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) LookupChapter(_ context.Context, q store.ChapterQuery) (*models.Chapter, error) {
	if q.URL != "" {
		return f.chapters[q.URL], nil
	}
	return nil, nil
}

func (f *fakeStore) ChapterIDs(_ context.Context, _ string, _, _ *int64) ([]models.ChapterIDEntry, error) {
	return []models.ChapterIDEntry{}, nil
}

func (f *fakeStore) InsertChapter(_ context.Context, ch *models.Chapter) (string, error) {
	if ch.ID == "" {
		f.chapterSeq++
		ch.ID = fmt.Sprintf("chapter-%d", f.chapterSeq)
	}
	f.chapters[ch.ChapterURL] = ch
	return ch.ID, nil
}

func testClient() *fetch.Client {
	return &fetch.Client{
		HTTP:     &http.Client{Timeout: 5 * time.Second},
		Attempts: 1,
		Backoff:  time.Millisecond,
	}
}

func testService(st store.Store) *Service {
	s := NewService(st, testClient(), nil)
	s.batchDelay = 0
	return s
}

const listingHTML = `
<html><body>
	<div class="post-title"><h1>Moonlit Blade</h1></div>
	<div class="summary_image"><img src="https://img.example.com/cover.jpg" alt="Moonlit Blade cover"></div>
	<ul>
		<li class="wp-manga-chapter"><a href="%[1]s/chapter-2">Chapter 2</a></li>
		<li class="wp-manga-chapter"><a href="%[1]s/chapter-1">Chapter 1</a></li>
	</ul>
</body></html>`

func chapterHTML(n int) string {
	return fmt.Sprintf(`
<html><body>
	<h2 style="text-align: center;">Chapter %d</h2>
	<input id="wp-manga-current-chap" data-id="src-%d">
	<div class="reading-content">
		<div class="text-right">
			<p>Paragraph one of chapter %d.</p>
			<p>Paragraph two.</p>
		</div>
	</div>
</body></html>`, n, n, n)
}

func TestScrapeWork(t *testing.T) {
	hits := 0
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprintf(w, listingHTML, srv.URL)
	}))
	defer srv.Close()

	st := newFakeStore()
	svc := testService(st)

	w, err := svc.ScrapeWork(context.Background(), srv.URL+"/novel/moonlit-blade/")
	require.NoError(t, err)
	require.NotNil(t, w)

	assert.NotEmpty(t, w.ID)
	assert.Equal(t, "Moonlit Blade", w.Title)
	assert.Equal(t, 2, w.TotalChapters)
	require.NotNil(t, w.CoverImageURL)
	assert.Equal(t, "https://img.example.com/cover.jpg", *w.CoverImageURL)
	require.Len(t, w.Chapters, 2)
	assert.Equal(t, "Chapter 2", w.Chapters[0].Title)
	assert.False(t, w.Chapters[0].ContentExtracted)
	assert.NotZero(t, w.LastUpdated)
	assert.Equal(t, 1, hits)

	// same URL again: stored record comes back, no second fetch
	again, err := svc.ScrapeWork(context.Background(), srv.URL+"/novel/moonlit-blade/")
	require.NoError(t, err)
	assert.Equal(t, w.ID, again.ID)
	assert.Equal(t, 1, hits)
}

func TestExtractChapter(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, chapterHTML(3))
	}))
	defer srv.Close()

	st := newFakeStore()
	st.works["work-1"] = &models.Work{
		ID:       "work-1",
		Chapters: []models.ChapterRef{{Title: "Chapter 3", URL: srv.URL + "/chapter-3"}},
	}
	svc := testService(st)

	pos := 2
	ch, err := svc.ExtractChapter(context.Background(), "work-1", srv.URL+"/chapter-3", &pos)
	require.NoError(t, err)
	require.NotNil(t, ch)

	assert.NotEmpty(t, ch.ID)
	assert.Equal(t, "work-1", ch.WorkID)
	assert.Equal(t, "Chapter 3", ch.Title)
	assert.Equal(t, "src-3", ch.SourceChapterID)
	assert.EqualValues(t, 3, ch.Number.Int)
	require.NotNil(t, ch.IndexPosition)
	assert.Equal(t, 2, *ch.IndexPosition)
	assert.Equal(t, []string{"Paragraph one of chapter 3.", "Paragraph two."}, ch.Content)
	assert.Equal(t, 2, ch.ParagraphCount)
	assert.True(t, st.works["work-1"].Chapters[0].ContentExtracted)
	assert.Equal(t, 1, hits)

	// same URL again: stored chapter comes back, flag re-marked, no fetch
	again, err := svc.ExtractChapter(context.Background(), "work-1", srv.URL+"/chapter-3", nil)
	require.NoError(t, err)
	assert.Equal(t, ch.ID, again.ID)
	assert.Equal(t, 1, hits)
	assert.Len(t, st.marks, 2)
}

func TestExtractChapterWithoutWork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chapterHTML(1))
	}))
	defer srv.Close()

	st := newFakeStore()
	svc := testService(st)

	ch, err := svc.ExtractChapter(context.Background(), "", srv.URL+"/chapter-1", nil)
	require.NoError(t, err)
	assert.Empty(t, ch.WorkID)
	assert.Empty(t, st.marks, "no work id, nothing to mark")
}

func TestExtractAll(t *testing.T) {
	var extracted []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		extracted = append(extracted, r.URL.Path)
		fmt.Fprint(w, chapterHTML(1))
	}))
	defer srv.Close()

	st := newFakeStore()
	refs := make([]models.ChapterRef, 5)
	for i := range refs {
		refs[i] = models.ChapterRef{
			Title: fmt.Sprintf("Chapter %d", i+1),
			URL:   fmt.Sprintf("%s/chapter-%d", srv.URL, i+1),
		}
	}
	refs[1].ContentExtracted = true
	refs[3].ContentExtracted = true
	st.works["work-1"] = &models.Work{ID: "work-1", Title: "Moonlit Blade", Chapters: refs}

	svc := testService(st)
	res, err := svc.ExtractAll(context.Background(), "work-1", 4)
	require.NoError(t, err)

	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 0, res.FailureCount)
	// limit truncates first, then flagged entries are skipped
	assert.Equal(t, []string{"/chapter-1", "/chapter-3"}, extracted)

	ch, err := st.FindChapterByURL(context.Background(), srv.URL+"/chapter-3")
	require.NoError(t, err)
	require.NotNil(t, ch)
	require.NotNil(t, ch.IndexPosition)
	assert.Equal(t, 2, *ch.IndexPosition, "index position is the offset in the full index")
}

func TestExtractAllCountsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/chapter-2") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, chapterHTML(1))
	}))
	defer srv.Close()

	st := newFakeStore()
	st.works["work-1"] = &models.Work{
		ID: "work-1",
		Chapters: []models.ChapterRef{
			{Title: "Chapter 1", URL: srv.URL + "/chapter-1"},
			{Title: "Chapter 2", URL: srv.URL + "/chapter-2"},
			{Title: "Chapter 3", URL: srv.URL + "/chapter-3"},
		},
	}

	svc := testService(st)
	res, err := svc.ExtractAll(context.Background(), "work-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 1, res.FailureCount)
}

func TestExtractAllUnknownWork(t *testing.T) {
	svc := testService(newFakeStore())
	_, err := svc.ExtractAll(context.Background(), "nope", 0)
	assert.ErrorIs(t, err, ErrWorkNotFound)
}
