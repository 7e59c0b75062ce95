package delivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	authDelivery "voice-journal/internal/auth/delivery"
	"voice-journal/internal/journal/domain"
	"voice-journal/internal/journal/repository"
	"voice-journal/internal/journal/usecase"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewJournalHandler(usecase.NewJournalUsecase(repository.NewMemoryEntryRepository(), nil))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(authDelivery.UserIDKey, c.GetHeader("X-Test-User"))
		c.Next()
	})
	r.POST("/api/journal", h.AddEntry)
	r.GET("/api/journal", h.GetEntries)
	r.GET("/api/journal/search", h.SearchEntries)
	r.GET("/api/journal/categories", h.GetCategories)
	r.GET("/api/journal/stats", h.GetStats)
	r.DELETE("/api/journal/:id", h.DeleteEntry)
	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", "42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type entriesResponse struct {
	Entries []domain.Entry `json:"entries"`
	Total   int            `json:"total"`
}

func TestJournalFlow(t *testing.T) {
	r := newTestRouter()

	w := do(r, http.MethodPost, "/api/journal", gin.H{"text": "Signed the new client contract"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var entry domain.Entry
	json.Unmarshal(w.Body.Bytes(), &entry)
	if !entry.HasCategory("work") {
		t.Errorf("expected work category, got %v", entry.Categories)
	}

	w = do(r, http.MethodGet, "/api/journal/search?q=contrct", nil)
	var found entriesResponse
	json.Unmarshal(w.Body.Bytes(), &found)
	if w.Code != http.StatusOK || found.Total != 1 {
		t.Fatalf("expected one search hit, got %d: %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/journal?category=work", nil)
	var recent entriesResponse
	json.Unmarshal(w.Body.Bytes(), &recent)
	if recent.Total != 1 || recent.Entries[0].ID != entry.ID {
		t.Errorf("expected the work entry, got %s", w.Body.String())
	}

	if w := do(r, http.MethodDelete, "/api/journal/"+entry.ID, nil); w.Code != http.StatusOK {
		t.Errorf("delete: expected 200, got %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/journal/"+entry.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", w.Code)
	}
}

func TestJournalBadRequests(t *testing.T) {
	r := newTestRouter()

	if w := do(r, http.MethodPost, "/api/journal", gin.H{}); w.Code != http.StatusBadRequest {
		t.Errorf("missing text: expected 400, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/journal/search", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing q: expected 400, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/journal?category=sports", nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown category: expected 400, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/journal/categories", nil); w.Code != http.StatusOK {
		t.Errorf("categories: expected 200, got %d", w.Code)
	}
}

func TestJournalStats(t *testing.T) {
	r := newTestRouter()
	for _, text := range []string{
		"Signed the new client contract",
		"Project deadline moved to friday",
		"Felt calm today",
	} {
		if w := do(r, http.MethodPost, "/api/journal", gin.H{"text": text}); w.Code != http.StatusCreated {
			t.Fatalf("add %q: expected 201, got %d", text, w.Code)
		}
	}

	w := do(r, http.MethodGet, "/api/journal/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var stats domain.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalEntries != 3 {
		t.Errorf("expected 3 entries, got %d", stats.TotalEntries)
	}
	if len(stats.Categories) == 0 || stats.Categories[0].Category != "work" || stats.Categories[0].Count != 2 {
		t.Errorf("expected work to lead with 2 entries, got %+v", stats.Categories)
	}
}
