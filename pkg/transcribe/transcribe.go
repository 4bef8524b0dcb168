// Package transcribe turns recorded audio into dream text through an
// OpenAI-compatible speech-to-text endpoint.
package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL  = "https://api.openai.com"
	DefaultModel    = "whisper-1"
	DefaultLanguage = "en"

	transcriptionPath = "/v1/audio/transcriptions"
)

// ErrEmptyTranscript is returned when the service answers without any text.
var ErrEmptyTranscript = errors.New("empty transcript")

// Transcriber converts an audio stream into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Config configures the HTTP client.
type Config struct {
	BaseURL  string
	APIKey   string
	Model    string
	Language string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Client calls /v1/audio/transcriptions with a multipart upload.
type Client struct {
	client   *resty.Client
	model    string
	language string
	logger   *slog.Logger
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// New creates a Client. Empty fields fall back to the package defaults.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)
	if cfg.APIKey != "" {
		c.SetAuthToken(cfg.APIKey)
	}

	return &Client{client: c, model: cfg.Model, language: cfg.Language, logger: cfg.Logger}
}

// Transcribe uploads the audio and returns the trimmed transcript.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if filename == "" {
		filename = "recording.m4a"
	}

	c.logger.Debug("uploading audio for transcription", "file", filename, "model", c.model)
	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, audio).
		SetFormData(map[string]string{
			"model":    c.model,
			"language": c.language,
		}).
		Post(transcriptionPath)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("transcription status %d: %s", resp.StatusCode(), errorMessage(resp.Body()))
	}

	var tr transcriptionResponse
	if err := json.Unmarshal(resp.Body(), &tr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	text := strings.TrimSpace(tr.Text)
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}

func errorMessage(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	return strings.TrimSpace(string(body))
}

var _ Transcriber = (*Client)(nil)
