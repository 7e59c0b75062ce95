package delivery

import (
	"errors"
	"net/http"
	"strconv"

	authDelivery "voice-journal/internal/auth/delivery"
	"voice-journal/internal/journal/domain"
	"voice-journal/internal/journal/repository"
	"voice-journal/internal/journal/usecase"

	"github.com/gin-gonic/gin"
)

// JournalHandler handles journal HTTP requests
type JournalHandler struct {
	journalUsecase usecase.JournalUsecase
}

func NewJournalHandler(journalUsecase usecase.JournalUsecase) *JournalHandler {
	return &JournalHandler{journalUsecase: journalUsecase}
}

// AddEntry stores a journal entry
// POST /api/journal  {"text": "..."}
func (h *JournalHandler) AddEntry(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.journalUsecase.AddEntry(c.Request.Context(), authDelivery.UserID(c), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetEntries returns recent entries
// GET /api/journal?category=fitness&limit=10
func (h *JournalHandler) GetEntries(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.journalUsecase.Recent(c.Request.Context(), authDelivery.UserID(c), c.Query("category"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	respondEntries(c, entries)
}

// SearchEntries searches entries by meaning, or by keyword when no index is configured
// GET /api/journal/search?q=...&category=...&limit=5
func (h *JournalHandler) SearchEntries(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.journalUsecase.Search(c.Request.Context(), authDelivery.UserID(c), query, c.Query("category"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	respondEntries(c, entries)
}

// DeleteEntry removes an entry
// DELETE /api/journal/:id
func (h *JournalHandler) DeleteEntry(c *gin.Context) {
	if err := h.journalUsecase.DeleteEntry(c.Request.Context(), authDelivery.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// GetCategories lists the categories entries are filed under
// GET /api/journal/categories
func (h *JournalHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": domain.Categories})
}

// GetStats reports entry totals per category
// GET /api/journal/stats
func (h *JournalHandler) GetStats(c *gin.Context) {
	stats, err := h.journalUsecase.Stats(c.Request.Context(), authDelivery.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func respondEntries(c *gin.Context, entries []*domain.Entry) {
	if entries == nil {
		entries = []*domain.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   len(entries),
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
	case errors.Is(err, usecase.ErrEmptyEntry), errors.Is(err, usecase.ErrUnknownCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
