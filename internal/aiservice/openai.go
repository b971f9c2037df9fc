package aiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

/* =================================================================================
							OPENAI-COMPATIBLE API
	Chat completions in JSON-object mode for text, images/generations for pictures.
=================================================================================*/

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type imageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality,omitempty"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

var (
	_ TextGenerator = (*OpenAIClient)(nil)
	_ ImageBackend  = (*OpenAIClient)(nil)
)

type OpenAIOptions struct {
	APIKey       string
	BaseURL      string
	TextModel    string
	ImageModel   string
	ImageSize    string
	ImageQuality string
	HTTPClient   *http.Client
}

type OpenAIClient struct {
	opts OpenAIOptions
	http *http.Client
}

func NewOpenAIClient(opts OpenAIOptions) *OpenAIClient {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OpenAIClient{opts: opts, http: httpClient}
}

// GenerateJSON returns the first choice's message content, or "" when there is none.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, req TextRequest) (string, error) {
	body := chatRequest{
		Model: c.opts.TextModel,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	zerolog.Ctx(ctx).Info().Str("task", req.Task).Str("model", c.opts.TextModel).Msg("Calling OpenAI chat completions...")

	var out chatResponse
	if err := c.post(ctx, "/chat/completions", body, &out); err != nil {
		return "", err
	}

	if len(out.Choices) == 0 || out.Choices[0].Message.Content == nil {
		return "", nil
	}
	return *out.Choices[0].Message.Content, nil
}

// GenerateImage requests a single image and returns its URL, or "" when the
// response carries none.
func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	body := imageRequest{
		Model:   c.opts.ImageModel,
		Prompt:  prompt,
		N:       1,
		Size:    c.opts.ImageSize,
		Quality: c.opts.ImageQuality,
	}

	zerolog.Ctx(ctx).Info().Str("model", c.opts.ImageModel).Msg("Calling OpenAI image generation...")

	var out imageResponse
	if err := c.post(ctx, "/images/generations", body, &out); err != nil {
		return "", err
	}

	if len(out.Data) == 0 {
		return "", nil
	}
	return out.Data[0].URL, nil
}

func (c *OpenAIClient) post(ctx context.Context, path string, in, out any) error {
	if c.opts.APIKey == "" {
		zerolog.Ctx(ctx).Error().Msg("OPENAI_API_KEY is not set.")
		return errors.New("server is not configured for AI generation")
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr apiErrorBody
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%d %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("API returned non-2xx status: %s, Body: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
