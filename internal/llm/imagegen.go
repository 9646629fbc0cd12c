package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ImageBackend generates an image from a text prompt and saves it into the
// sample image directory, returning the saved file name. Implementations
// report failure via error; callers fall back to a stock sample image.
type ImageBackend interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// ImageBackendConfig configures the HTTP image generation client.
type ImageBackendConfig struct {
	// BaseURL is the image server address; POST {prompt, ratio} to
	// BaseURL + "/generate" returns raw image bytes.
	BaseURL string

	// SaveDir is where generated images are written.
	SaveDir string

	// Ratio is the requested aspect ratio, e.g. "1:1".
	Ratio string

	// Timeout bounds one generation call. Default: 60s.
	Timeout time.Duration
}

// HTTPImageBackend implements ImageBackend against a bare HTTP image API.
type HTTPImageBackend struct {
	cfg    ImageBackendConfig
	client *http.Client
	log    zerolog.Logger
}

// NewHTTPImageBackend creates the image generation client.
func NewHTTPImageBackend(cfg ImageBackendConfig, logger zerolog.Logger) (*HTTPImageBackend, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("image backend base URL is required")
	}
	if cfg.SaveDir == "" {
		return nil, fmt.Errorf("image save directory is required")
	}
	if cfg.Ratio == "" {
		cfg.Ratio = "1:1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &HTTPImageBackend{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    logger,
	}, nil
}

type imageAPIRequest struct {
	Prompt string `json:"prompt"`
	Ratio  string `json:"ratio"`
}

// GenerateImage posts the prompt to the backend, writes the returned bytes
// as a PNG under SaveDir, and returns the file name (not the full path).
func (b *HTTPImageBackend) GenerateImage(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(imageAPIRequest{Prompt: prompt, Ratio: b.cfg.Ratio})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := b.cfg.BaseURL + "/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/*")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image API returned status %d: %s", resp.StatusCode, string(data))
	}
	if readErr != nil {
		return "", fmt.Errorf("read response body: %w", readErr)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image API returned empty data")
	}

	name := fmt.Sprintf("gen-%s.png", uuid.NewString())
	path := filepath.Join(b.cfg.SaveDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	b.log.Info().Str("file", name).Int("size_bytes", len(data)).Msg("generated image saved")
	return name, nil
}
