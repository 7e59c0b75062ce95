package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiService struct {
	ApiKey  string
	BaseURL string
	client  *http.Client
	config  func() GenerationConfig
}

// GenerationConfig carries the sampling options sent with each request.
// Zero fields are left to the model defaults.
type GenerationConfig struct {
	Temperature       float64
	MaxOutputTokens   int
	SystemInstruction string
}

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		ApiKey:  apiKey,
		BaseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

// SetConfigSource makes every request read its options from source, so
// runtime settings changes apply to the next call
func (g *GeminiService) SetConfigSource(source func() GenerationConfig) {
	g.config = source
}

// Classify asks the model which of categories apply to a journal entry.
// Names the model invents are dropped; the result may be empty.
func (g *GeminiService) Classify(ctx context.Context, text string, categories []string) ([]string, error) {
	prompt := fmt.Sprintf(`Classify this journal entry into one or more of these categories: %s

Reply with the matching category names only, comma-separated, lowercase.

Entry: %q`, strings.Join(categories, ", "), text)

	reply, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, field := range strings.FieldsFunc(reply, func(r rune) bool { return r == ',' || r == '\n' }) {
		name := strings.ToLower(strings.Trim(strings.TrimSpace(field), `"'.*`))
		if allowed[name] && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out, nil
}

func (g *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	// Use gemini-2.5-flash for fast classification
	url := g.BaseURL + "/models/gemini-2.5-flash:generateContent?key=" + g.ApiKey

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	if g.config != nil {
		cfg := g.config()
		genConfig := map[string]interface{}{"temperature": cfg.Temperature}
		if cfg.MaxOutputTokens > 0 {
			genConfig["maxOutputTokens"] = cfg.MaxOutputTokens
		}
		payload["generationConfig"] = genConfig
		if cfg.SystemInstruction != "" {
			payload["systemInstruction"] = map[string]interface{}{
				"parts": []map[string]string{{"text": cfg.SystemInstruction}},
			}
		}
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API error: %s", string(respBody))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}

	if len(result.Candidates) > 0 && len(result.Candidates[0].Content.Parts) > 0 {
		return result.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", fmt.Errorf("no text returned")
}
