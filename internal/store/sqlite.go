package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"novelhub/pkg/models"
)

type SQLite struct {
	DB *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{DB: db}
}

const workColumns = `id, source_url, title, cover_image_url, cover_image_alt, total_chapters, last_updated, chapters`

func (s *SQLite) FindWorkByURL(ctx context.Context, url string) (*models.Work, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+workColumns+` FROM works WHERE source_url = ? LIMIT 1`, url)
	return scanWork(row)
}

func (s *SQLite) FindWorkByID(ctx context.Context, id string) (*models.Work, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+workColumns+` FROM works WHERE id = ?`, id)
	return scanWork(row)
}

func scanWork(row *sql.Row) (*models.Work, error) {
	var (
		w            models.Work
		coverURL     sql.NullString
		coverAlt     sql.NullString
		chaptersJSON string
	)
	if err := row.Scan(&w.ID, &w.SourceURL, &w.Title, &coverURL, &coverAlt, &w.TotalChapters, &w.LastUpdated, &chaptersJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan work: %w", err)
	}
	if coverURL.Valid {
		w.CoverImageURL = &coverURL.String
	}
	if coverAlt.Valid {
		w.CoverImageAlt = &coverAlt.String
	}
	if err := json.Unmarshal([]byte(chaptersJSON), &w.Chapters); err != nil {
		return nil, fmt.Errorf("decode chapter index: %w", err)
	}
	return &w, nil
}

func (s *SQLite) ListWorks(ctx context.Context) ([]models.WorkSummary, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, source_url, title, cover_image_url, cover_image_alt, total_chapters, last_updated
		FROM works
		ORDER BY last_updated DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list works: %w", err)
	}
	defer rows.Close()

	out := make([]models.WorkSummary, 0)
	for rows.Next() {
		var (
			w        models.WorkSummary
			coverURL sql.NullString
			coverAlt sql.NullString
		)
		if err := rows.Scan(&w.ID, &w.SourceURL, &w.Title, &coverURL, &coverAlt, &w.TotalChapters, &w.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan work summary: %w", err)
		}
		if coverURL.Valid {
			w.CoverImageURL = &coverURL.String
		}
		if coverAlt.Valid {
			w.CoverImageAlt = &coverAlt.String
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (s *SQLite) InsertWork(ctx context.Context, w *models.Work) (string, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Chapters == nil {
		w.Chapters = []models.ChapterRef{}
	}
	chaptersJSON, err := json.Marshal(w.Chapters)
	if err != nil {
		return "", fmt.Errorf("encode chapter index: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO works (id, source_url, title, cover_image_url, cover_image_alt, total_chapters, last_updated, chapters)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, w.ID, w.SourceURL, w.Title, nullable(w.CoverImageURL), nullable(w.CoverImageAlt), w.TotalChapters, w.LastUpdated, string(chaptersJSON))
	if err != nil {
		return "", fmt.Errorf("insert work: %w", err)
	}
	return w.ID, nil
}

// MarkChapterExtracted rewrites the work's chapter-index JSON with the
// matching entry flagged. Read-modify-write on a single row; the works
// row is the document here.
func (s *SQLite) MarkChapterExtracted(ctx context.Context, workID, chapterURL string) error {
	w, err := s.FindWorkByID(ctx, workID)
	if err != nil {
		return err
	}
	if w == nil {
		return nil
	}

	changed := false
	for i := range w.Chapters {
		if w.Chapters[i].URL == chapterURL && !w.Chapters[i].ContentExtracted {
			w.Chapters[i].ContentExtracted = true
			changed = true
		}
	}
	if !changed {
		return nil
	}

	chaptersJSON, err := json.Marshal(w.Chapters)
	if err != nil {
		return fmt.Errorf("encode chapter index: %w", err)
	}
	if _, err := s.DB.ExecContext(ctx, `UPDATE works SET chapters = ? WHERE id = ?`, string(chaptersJSON), workID); err != nil {
		return fmt.Errorf("update chapter index: %w", err)
	}
	return nil
}

const chapterColumns = `id, work_id, chapter_url, title, source_chapter_id, chapter_number, index_position, content, paragraph_count, extracted_at`

func (s *SQLite) FindChapterByURL(ctx context.Context, url string) (*models.Chapter, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+chapterColumns+` FROM chapters WHERE chapter_url = ? LIMIT 1`, url)
	return scanChapter(row)
}

func (s *SQLite) FindChapterByID(ctx context.Context, id string) (*models.Chapter, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+chapterColumns+` FROM chapters WHERE id = ?`, id)
	return scanChapter(row)
}

func scanChapter(row *sql.Row) (*models.Chapter, error) {
	var (
		ch          models.Chapter
		workID      sql.NullString
		sourceID    sql.NullString
		number      sql.NullString
		indexPos    sql.NullInt64
		contentJSON string
	)
	if err := row.Scan(&ch.ID, &workID, &ch.ChapterURL, &ch.Title, &sourceID, &number, &indexPos, &contentJSON, &ch.ParagraphCount, &ch.ExtractedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan chapter: %w", err)
	}
	ch.WorkID = workID.String
	ch.SourceChapterID = sourceID.String
	if number.Valid {
		ch.Number = models.NumberFromString(number.String)
	}
	if indexPos.Valid {
		pos := int(indexPos.Int64)
		ch.IndexPosition = &pos
	}
	if err := json.Unmarshal([]byte(contentJSON), &ch.Content); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return &ch, nil
}

func (s *SQLite) LookupChapter(ctx context.Context, q ChapterQuery) (*models.Chapter, error) {
	var where []string
	var args []any

	if q.URL != "" {
		where = append(where, "chapter_url = ?")
		args = append(args, q.URL)
	}
	if q.WorkID != "" {
		where = append(where, "work_id = ?")
		args = append(args, q.WorkID)
	}
	if q.Number.Valid {
		if q.Number.IsInt {
			where = append(where, "chapter_number_int = ?")
			args = append(args, q.Number.Int)
		} else {
			where = append(where, "chapter_number = ?")
			args = append(args, q.Number.Raw)
		}
	}
	if len(where) == 0 {
		return nil, fmt.Errorf("empty chapter query")
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+chapterColumns+` FROM chapters WHERE `+strings.Join(where, " AND ")+` LIMIT 1`,
		args...)
	return scanChapter(row)
}

func (s *SQLite) ChapterIDs(ctx context.Context, workID string, minNumber, maxNumber *int64) ([]models.ChapterIDEntry, error) {
	where := []string{"work_id = ?"}
	args := []any{workID}

	if minNumber != nil {
		where = append(where, "chapter_number_int >= ?")
		args = append(args, *minNumber)
	}
	if maxNumber != nil {
		where = append(where, "chapter_number_int <= ?")
		args = append(args, *maxNumber)
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, chapter_number, title, chapter_url
		FROM chapters
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY chapter_number_int IS NULL, chapter_number_int ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("chapter ids: %w", err)
	}
	defer rows.Close()

	out := make([]models.ChapterIDEntry, 0)
	for rows.Next() {
		var (
			e      models.ChapterIDEntry
			number sql.NullString
		)
		if err := rows.Scan(&e.ChapterID, &number, &e.Title, &e.URL); err != nil {
			return nil, fmt.Errorf("scan chapter id: %w", err)
		}
		if number.Valid {
			e.Number = models.NumberFromString(number.String)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (s *SQLite) InsertChapter(ctx context.Context, ch *models.Chapter) (string, error) {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	if ch.Content == nil {
		ch.Content = []string{}
	}
	contentJSON, err := json.Marshal(ch.Content)
	if err != nil {
		return "", fmt.Errorf("encode content: %w", err)
	}

	var numText any
	var numInt any
	if ch.Number.Valid {
		numText = ch.Number.String()
		if ch.Number.IsInt {
			numInt = ch.Number.Int
		}
	}

	var indexPos any
	if ch.IndexPosition != nil {
		indexPos = *ch.IndexPosition
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO chapters (id, work_id, chapter_url, title, source_chapter_id, chapter_number, chapter_number_int, index_position, content, paragraph_count, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ch.ID, emptyToNull(ch.WorkID), ch.ChapterURL, ch.Title, emptyToNull(ch.SourceChapterID), numText, numInt, indexPos, string(contentJSON), ch.ParagraphCount, ch.ExtractedAt)
	if err != nil {
		return "", fmt.Errorf("insert chapter: %w", err)
	}
	return ch.ID, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func emptyToNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}
