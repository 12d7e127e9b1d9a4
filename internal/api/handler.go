// Package api exposes the scraper and the store over REST. Response
// shapes follow the public contract: successes are {"status":"success",
// ...}, failures are {"status":"error","message":...} with 400, 404 or
// 500.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"novelhub/internal/scrape"
	"novelhub/internal/store"
	"novelhub/pkg/models"
)

// Scraper is the slice of the scrape service the handlers need.
type Scraper interface {
	ScrapeWork(ctx context.Context, sourceURL string) (*models.Work, error)
	ExtractChapter(ctx context.Context, workID, chapterURL string, indexPos *int) (*models.Chapter, error)
	ExtractAll(ctx context.Context, workID string, limit int) (*scrape.BatchResult, error)
}

type Handler struct {
	Store   store.Store
	Scraper Scraper
}

func NewHandler(st store.Store, sc Scraper) *Handler {
	return &Handler{Store: st, Scraper: sc}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.docs)

	api := r.Group("/api")
	api.GET("/manga", h.listManga)
	api.GET("/manga/:id", h.getManga)
	api.GET("/manga/:id/chapters", h.getMangaChapters)
	api.POST("/manga/scrape", h.scrapeManga)
	api.POST("/manga/:id/extract_all", h.extractAll)
	api.POST("/manga/chapter_ids", h.chapterIDs)
	api.GET("/chapter/:id", h.getChapter)
	api.POST("/chapter/extract", h.extractChapter)
	api.POST("/chapter/lookup", h.lookupChapter)
	api.POST("/chapter/get_id", h.getChapterID)
	api.POST("/chapter/url/v1", h.chapterByURL)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

func (h *Handler) listManga(c *gin.Context) {
	works, err := h.Store.ListWorks(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "count": len(works), "data": works})
}

func (h *Handler) getManga(c *gin.Context) {
	w, err := h.Store.FindWorkByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if w == nil {
		fail(c, http.StatusNotFound, "Manga not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": w})
}

func (h *Handler) getMangaChapters(c *gin.Context) {
	w, err := h.Store.FindWorkByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if w == nil {
		fail(c, http.StatusNotFound, "Manga not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"manga_title":    w.Title,
		"total_chapters": len(w.Chapters),
		"chapters":       w.Chapters,
	})
}

func (h *Handler) getChapter(c *gin.Context) {
	ch, err := h.Store.FindChapterByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if ch == nil {
		fail(c, http.StatusNotFound, "Chapter not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": ch})
}

type scrapeReq struct {
	URL string `json:"url"`
}

func (h *Handler) scrapeManga(c *gin.Context) {
	var req scrapeReq
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		fail(c, http.StatusBadRequest, "URL is required")
		return
	}

	w, err := h.Scraper.ScrapeWork(c.Request.Context(), req.URL)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to scrape manga: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": w})
}

type extractReq struct {
	MangaID    string `json:"manga_id"`
	ChapterURL string `json:"chapter_url"`
}

func (h *Handler) extractChapter(c *gin.Context) {
	var req extractReq
	if err := c.ShouldBindJSON(&req); err != nil || req.MangaID == "" || req.ChapterURL == "" {
		fail(c, http.StatusBadRequest, "manga_id and chapter_url are required")
		return
	}

	ch, err := h.Scraper.ExtractChapter(c.Request.Context(), req.MangaID, req.ChapterURL, nil)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to extract chapter: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": ch})
}

type extractAllReq struct {
	Limit int `json:"limit"`
}

func (h *Handler) extractAll(c *gin.Context) {
	// body is optional; an absent or empty body means no limit
	var req extractAllReq
	_ = c.ShouldBindJSON(&req)

	res, err := h.Scraper.ExtractAll(c.Request.Context(), c.Param("id"), req.Limit)
	if err != nil {
		if errors.Is(err, scrape.ErrWorkNotFound) {
			fail(c, http.StatusNotFound, "Manga not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to extract chapters: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": res})
}

type lookupReq struct {
	URL           string               `json:"url"`
	MangaID       string               `json:"manga_id"`
	ChapterNumber models.ChapterNumber `json:"chapter_number"`
}

func (r lookupReq) query() (store.ChapterQuery, bool) {
	q := store.ChapterQuery{URL: r.URL, WorkID: r.MangaID, Number: r.ChapterNumber}
	return q, r.URL != "" || r.MangaID != "" || r.ChapterNumber.Valid
}

func (h *Handler) lookupChapter(c *gin.Context) {
	var req lookupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	q, ok := req.query()
	if !ok {
		fail(c, http.StatusBadRequest, "At least one search parameter is required")
		return
	}

	ch, err := h.Store.LookupChapter(c.Request.Context(), q)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if ch == nil {
		fail(c, http.StatusNotFound, "Chapter not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": ch})
}

func (h *Handler) getChapterID(c *gin.Context) {
	var req lookupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	q, ok := req.query()
	if !ok {
		fail(c, http.StatusBadRequest, "At least one search parameter is required")
		return
	}

	ch, err := h.Store.LookupChapter(c.Request.Context(), q)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if ch == nil {
		fail(c, http.StatusNotFound, "Chapter not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "chapter_id": ch.ID})
}

type chapterIDsReq struct {
	MangaID    string `json:"manga_id"`
	MinChapter *int64 `json:"min_chapter"`
	MaxChapter *int64 `json:"max_chapter"`
}

func (h *Handler) chapterIDs(c *gin.Context) {
	var req chapterIDsReq
	if err := c.ShouldBindJSON(&req); err != nil || req.MangaID == "" {
		fail(c, http.StatusBadRequest, "manga_id is required")
		return
	}

	entries, err := h.Store.ChapterIDs(c.Request.Context(), req.MangaID, req.MinChapter, req.MaxChapter)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "count": len(entries), "data": entries})
}

type chapterByURLReq struct {
	URL     string `json:"url"`
	MangaID string `json:"manga_id"`
}

func (h *Handler) chapterByURL(c *gin.Context) {
	var req chapterByURLReq
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		fail(c, http.StatusBadRequest, "Chapter URL is required")
		return
	}

	ch, err := h.Store.LookupChapter(c.Request.Context(), store.ChapterQuery{URL: req.URL, WorkID: req.MangaID})
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if ch == nil {
		fail(c, http.StatusNotFound, "Chapter not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": ch})
}
