package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"voice-journal/pkg/gemini"

	"github.com/gin-gonic/gin"
)

// BotSettings holds the model settings the user can change at runtime. They
// shape every request the Gemini classifier sends.
type BotSettings struct {
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
	SystemPrompt string  `json:"system_prompt"`
}

var ErrInvalidSettings = errors.New("invalid settings")

// DefaultBotSettings returns the settings used for keys missing from the file
func DefaultBotSettings() BotSettings {
	return BotSettings{
		Temperature:  0.7,
		MaxTokens:    500,
		SystemPrompt: "You are a personal AI assistant helping the user track their life goals, fitness, ideas, and daily journal. Be concise, supportive, and actionable. Use their previous entries to provide personalized advice.",
	}
}

func (s BotSettings) Validate() error {
	if s.Temperature < 0 || s.Temperature > 2 {
		return errors.New("temperature must be between 0 and 2")
	}
	if s.MaxTokens <= 0 {
		return errors.New("max_tokens must be positive")
	}
	return nil
}

// SettingsStore keeps bot settings in memory and persists them as JSON
type SettingsStore struct {
	mu       sync.RWMutex
	path     string
	settings BotSettings
}

// LoadSettingsStore reads path over the defaults. A missing or unreadable
// file yields the defaults.
func LoadSettingsStore(path string) *SettingsStore {
	settings := DefaultBotSettings()
	if data, err := os.ReadFile(path); err == nil {
		// Keys absent from the file keep their default values
		if err := json.Unmarshal(data, &settings); err != nil {
			log.Printf("[Settings] Ignoring unreadable %s: %v", path, err)
			settings = DefaultBotSettings()
		}
	}
	return &SettingsStore{path: path, settings: settings}
}

func (s *SettingsStore) Get() BotSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// GenerationConfig converts the current settings into Gemini request options
func (s *SettingsStore) GenerationConfig() gemini.GenerationConfig {
	settings := s.Get()
	return gemini.GenerationConfig{
		Temperature:       settings.Temperature,
		MaxOutputTokens:   settings.MaxTokens,
		SystemInstruction: settings.SystemPrompt,
	}
}

// Update applies patch to the current settings and persists the result
func (s *SettingsStore) Update(patch map[string]json.RawMessage) (BotSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.settings
	raw, err := json.Marshal(patch)
	if err != nil {
		return updated, err
	}
	if err := json.Unmarshal(raw, &updated); err != nil {
		return s.settings, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := updated.Validate(); err != nil {
		return s.settings, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	data, err := json.MarshalIndent(updated, "", "    ")
	if err != nil {
		return s.settings, err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return s.settings, err
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return s.settings, fmt.Errorf("failed to save settings: %w", err)
	}

	s.settings = updated
	return updated, nil
}

// SettingsHandler serves the bot settings API
type SettingsHandler struct {
	store *SettingsStore
}

func NewSettingsHandler(store *SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// GetSettings returns the current bot settings
// GET /api/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Get())
}

// UpdateSettings changes any subset of the bot settings
// PATCH /api/settings  {"temperature": 0.3}
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.store.Update(patch)
	if errors.Is(err, ErrInvalidSettings) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings updated successfully",
		"settings": settings,
	})
}
