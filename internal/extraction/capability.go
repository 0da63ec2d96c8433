package extraction

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

// Strategy names recorded as processedBy in normalized payloads.
const (
	StrategyText   = "text-extraction"
	StrategyVision = "vision-extraction"
)

// Capability is the external completion service that turns document content
// into structured JSON. Both methods return the model's raw textual response.
type Capability interface {
	CompleteText(ctx context.Context, system, user string) (string, error)
	CompleteVision(ctx context.Context, system, user string, pages []string) (string, error)
}

// ClientConfig configures the chat-completions capability client.
type ClientConfig struct {
	BaseURL     string
	APIKey      string
	TextModel   string
	VisionModel string
	Temperature float64
	Timeout     time.Duration
}

// Client implements Capability against an OpenAI-compatible chat completions
// endpoint.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) CompleteText(ctx context.Context, system, user string) (string, error) {
	body := map[string]interface{}{
		"model":       c.cfg.TextModel,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]interface{}{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	return c.complete(ctx, body)
}

func (c *Client) CompleteVision(ctx context.Context, system, user string, pages []string) (string, error) {
	content := []map[string]interface{}{
		{"type": "text", "text": user},
	}
	for _, page := range pages {
		content = append(content, map[string]interface{}{
			"type":      "image_url",
			"image_url": map[string]string{"url": "data:application/pdf;base64," + page},
		})
	}

	body := map[string]interface{}{
		"model":       c.cfg.VisionModel,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]interface{}{
			{"role": "system", "content": system},
			{"role": "user", "content": content},
		},
	}
	return c.complete(ctx, body)
}

func (c *Client) complete(ctx context.Context, body map[string]interface{}) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("extraction capability credential not configured")
	}

	reqData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("capability returned status %d: %s", resp.StatusCode, string(raw))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode capability response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("capability error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("capability returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}
