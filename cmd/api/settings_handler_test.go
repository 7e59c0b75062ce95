package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsStoreMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"temperature": 0.2}`), 0o644); err != nil {
		t.Fatal(err)
	}

	got := LoadSettingsStore(path).Get()
	want := DefaultBotSettings()
	want.Temperature = 0.2
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestLoadSettingsStoreIgnoresBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	os.WriteFile(path, []byte(`{not json`), 0o644)

	if got := LoadSettingsStore(path).Get(); got != DefaultBotSettings() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestUpdateSettingsPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "settings.json")
	store := LoadSettingsStore(path)

	updated, err := store.Update(map[string]json.RawMessage{
		"system_prompt": json.RawMessage(`"Be brief."`),
		"max_tokens":    json.RawMessage(`800`),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.SystemPrompt != "Be brief." || updated.MaxTokens != 800 {
		t.Errorf("unexpected settings: %+v", updated)
	}

	if reloaded := LoadSettingsStore(path).Get(); reloaded != updated {
		t.Errorf("expected persisted %+v, got %+v", updated, reloaded)
	}
}

func TestSettingsFeedGenerationConfig(t *testing.T) {
	store := LoadSettingsStore(filepath.Join(t.TempDir(), "settings.json"))
	if _, err := store.Update(map[string]json.RawMessage{
		"temperature": json.RawMessage(`0.3`),
		"max_tokens":  json.RawMessage(`64`),
	}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	cfg := store.GenerationConfig()
	if cfg.Temperature != 0.3 || cfg.MaxOutputTokens != 64 {
		t.Errorf("unexpected generation config %+v", cfg)
	}
	if cfg.SystemInstruction != DefaultBotSettings().SystemPrompt {
		t.Errorf("expected default system prompt, got %q", cfg.SystemInstruction)
	}
}

func TestSettingsAPI(t *testing.T) {
	r, token := newTestServer(t)

	w := request(r, http.MethodPatch, "/api/settings", token, map[string]any{"temperature": 5})
	if w.Code != http.StatusBadRequest {
		t.Errorf("out of range temperature: expected 400, got %d", w.Code)
	}

	w = request(r, http.MethodPatch, "/api/settings", token, map[string]any{"temperature": 0.1})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = request(r, http.MethodGet, "/api/settings", token, nil)
	var got BotSettings
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.Temperature != 0.1 {
		t.Errorf("expected temperature 0.1, got %v", got.Temperature)
	}
}
