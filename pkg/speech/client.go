// Package speech provides a client for an HTTP text-to-speech service that
// renders one audio file per request.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the text-to-speech operations.
type Client interface {
	// Synthesize renders text with the given voice and returns raw audio bytes.
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Option configures the speech client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.hc = hc
	}
}

// WithFormat sets the requested audio container format (default "mp3").
func WithFormat(format string) Option {
	return func(c *httpClient) {
		c.format = format
	}
}

// WithDefaultVoice sets the voice used when a segment does not name one.
func WithDefaultVoice(voice string) Option {
	return func(c *httpClient) {
		c.defaultVoice = voice
	}
}

type httpClient struct {
	apiKey       string
	baseURL      string
	format       string
	defaultVoice string
	hc           *http.Client
}

// NewClient creates a speech client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.speech.pagelm.dev",
		format:  "mp3",
		hc:      &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type synthesizeRequest struct {
	Text   string `json:"text"`
	Voice  string `json:"voice,omitempty"`
	Format string `json:"format"`
}

func (c *httpClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if voice == "" {
		voice = c.defaultVoice
	}
	body, err := json.Marshal(synthesizeRequest{Text: text, Voice: voice, Format: c.format})
	if err != nil {
		return nil, eris.Wrap(err, "speech: encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/synthesize", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "speech: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "speech: synthesize")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, eris.New(fmt.Sprintf("speech: synthesize returned %d: %s", resp.StatusCode, snippet))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "speech: read audio")
	}
	return audio, nil
}
