// internal/advisory/generator.go
package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"assessment-engine/internal/common/logger"
)

var (
	ErrGenerationTimeout = errors.New("GENERATION_TIMEOUT")
	ErrGenerationFailed  = errors.New("GENERATION_FAILED")
)

// fallbackText replaces a blank generation result so callers never
// render an empty recommendations block.
const fallbackText = "We could not produce tailored recommendations for this assessment. Please review your priority areas with a business advisor."

// GeneratorConfig holds the GenAI gateway settings.
type GeneratorConfig struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	MaxTokens   int
	Temperature float64
}

// Generator calls the GenAI gateway to turn an assembled prompt into
// advisory text.
type Generator struct {
	config GeneratorConfig
	// No client-level timeout; the per-call context bounds the request.
	client *http.Client
	logger logger.Logger
}

func NewGenerator(config GeneratorConfig, log logger.Logger) *Generator {
	return &Generator{
		config: config,
		client: &http.Client{},
		logger: log.WithFields(map[string]interface{}{
			"component": "advisory-generator",
		}),
	}
}

// Generate posts the prompt to the gateway and returns the generated
// text. Non-2xx responses and transport errors are retried with
// exponential backoff up to MaxRetries; a deadline hit anywhere maps to
// ErrGenerationTimeout.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	body, err := json.Marshal(map[string]interface{}{
		"prompt":      prompt,
		"max_tokens":  g.config.MaxTokens,
		"temperature": g.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrGenerationTimeout
			}
		}

		// Rebuild the request each attempt; the previous attempt may
		// have consumed the body.
		req, reqErr := http.NewRequestWithContext(ctx, "POST",
			g.config.BaseURL+"/api/ai/generate", bytes.NewReader(body))
		if reqErr != nil {
			return "", fmt.Errorf("%w: %v", ErrGenerationFailed, reqErr)
		}
		req.Header.Set("Content-Type", "application/json")
		if g.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+g.config.APIKey)
		}

		resp, lastErr = g.client.Do(req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}

		if ctx.Err() != nil {
			return "", ErrGenerationTimeout
		}

		g.logger.Warn("generation attempt failed", map[string]interface{}{
			"attempt": attempt,
			"error":   lastErr.Error(),
		})
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrGenerationTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, lastErr)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: no successful response after retries", ErrGenerationFailed)
	}
	defer resp.Body.Close()

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrGenerationFailed, err)
	}

	if strings.TrimSpace(apiResponse.Text) == "" {
		g.logger.Warn("gateway returned empty text, using fallback", nil)
		return fallbackText, nil
	}

	g.logger.Info("generation completed", map[string]interface{}{
		"chars": len(apiResponse.Text),
	})

	return apiResponse.Text, nil
}
