// Package narration talks to the external text-to-speech service that turns
// scene narration text into audio. Synthesis itself happens server-side; this
// client only issues requests and caches the returned payloads.
package narration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"

	"reelcut/internal/config"
	"reelcut/internal/services"
)

// HTTPDoer describes the HTTP client used by the narration service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client generates narration audio through the configured speech service.
type Client struct {
	baseURL  string
	apiKey   string
	voice    string
	lang     string
	format   string
	cacheDir string
	timeout  time.Duration
	http     HTTPDoer
}

// Request is one synthesis request. Empty Voice and Language fall back to the
// configured defaults.
type Request struct {
	SceneID  string
	Text     string
	Voice    string
	Language string
}

type speechPayload struct {
	Text     string `json:"text"`
	Voice    string `json:"voice"`
	Language string `json:"language"`
	Format   string `json:"format"`
}

// NewClient builds a narration client from configuration. It fails when
// narration is disabled or the service URL is missing.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg == nil || !cfg.Narration.Enabled {
		return nil, services.Wrap(services.ErrConfiguration, "narration", "new client", "narration is not enabled", nil)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.Narration.BaseURL), "/")
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "narration", "new client", "narration base_url is required", nil)
	}

	timeout := time.Duration(cfg.Narration.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:  baseURL,
		apiKey:   strings.TrimSpace(cfg.Narration.APIKey),
		voice:    cfg.Narration.Voice,
		lang:     cfg.Narration.Language,
		format:   cfg.Narration.Format,
		cacheDir: cfg.NarrationCacheDir(),
		timeout:  timeout,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// WithHTTPDoer replaces the underlying HTTP client.
func (c *Client) WithHTTPDoer(doer HTTPDoer) *Client {
	c.http = doer
	return c
}

// Generate synthesizes audio for the request and writes it to the narration
// cache as <sceneID>.<format>. It returns the written path.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.SceneID) == "" {
		return "", services.Wrap(services.ErrValidation, "narration", "generate", "scene id is required", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return "", services.Wrap(services.ErrValidation, "narration", "generate", "narration text is empty", nil)
	}

	voice := req.Voice
	if voice == "" {
		voice = c.voice
	}
	lang := req.Language
	if lang == "" {
		lang = c.lang
	}
	if _, err := language.Parse(lang); err != nil {
		return "", services.Wrap(services.ErrValidation, "narration", "generate", fmt.Sprintf("invalid language tag %q", lang), err)
	}

	payload, err := json.Marshal(speechPayload{
		Text:     req.Text,
		Voice:    voice,
		Language: lang,
		Format:   c.format,
	})
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "narration", "generate", "encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/speech", bytes.NewReader(payload))
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "narration", "generate", "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "narration", "generate", "call speech service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", services.Wrap(services.ErrExternalTool, "narration", "generate",
			fmt.Sprintf("speech service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "narration", "generate", "read audio payload", err)
	}
	if len(audio) == 0 {
		return "", services.Wrap(services.ErrExternalTool, "narration", "generate", "speech service returned empty audio", nil)
	}

	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrTransient, "narration", "generate", "create narration cache dir", err)
	}
	target := filepath.Join(c.cacheDir, req.SceneID+"."+c.audioExtension())
	if err := os.WriteFile(target, audio, 0o644); err != nil {
		return "", services.Wrap(services.ErrTransient, "narration", "generate", "write audio file", err)
	}
	return target, nil
}

func (c *Client) audioExtension() string {
	format := strings.TrimSpace(strings.ToLower(c.format))
	if format == "" {
		return "mp3"
	}
	return format
}
