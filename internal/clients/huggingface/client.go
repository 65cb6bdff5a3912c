package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"adpulse-server/internal/observability"
)

const defaultBaseURL = "https://router.huggingface.co/hf-inference/models"

// Client calls the Hugging Face serverless inference API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *observability.Logger
}

// NewClient creates a new Hugging Face inference client.
func NewClient(apiKey string, logger *observability.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// NewClientWithBaseURL creates a client pointed at a non-default endpoint.
func NewClientWithBaseURL(baseURL, apiKey string, logger *observability.Logger) *Client {
	c := NewClient(apiKey, logger)
	c.baseURL = baseURL
	return c
}

type textToImageRequest struct {
	Inputs     string            `json:"inputs"`
	Parameters textToImageParams `json:"parameters"`
}

type textToImageParams struct {
	NumInferenceSteps int `json:"num_inference_steps"`
}

// TextToImage generates an image from a prompt with the named model and
// returns the raw image bytes.
func (c *Client) TextToImage(ctx context.Context, model, prompt string) ([]byte, error) {
	payload, err := json.Marshal(textToImageRequest{
		Inputs:     prompt,
		Parameters: textToImageParams{NumInferenceSteps: 5},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+model, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create inference request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "failed to call hugging face API", err)
		return nil, fmt.Errorf("failed to call hugging face API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("hugging face API returned status %d: %s", resp.StatusCode, string(body))
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read generated image: %w", err)
	}
	return image, nil
}
