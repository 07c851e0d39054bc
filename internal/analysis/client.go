// Package analysis is the HTTP client for the companion backend that scores
// feeding text into the seven-dimensional emotion space and generates art
// images. The persistence engine never talks to this package; the pet
// service treats it as a black-box collaborator.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/YutaTadokoro/WordGotchi/internal/types"
)

// Config holds backend connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	// MaxTokens is the response budget for analysis calls.
	MaxTokens int
	// MaxPromptTokens caps the feeding text sent per analysis call.
	MaxPromptTokens int
}

// Client calls the backend's /messages and /generate endpoints with
// exponential-backoff retries.
type Client struct {
	baseURL      string
	apiKey       string
	model        string
	maxTokens    int
	promptBudget int
	http         *http.Client
	retry        *RetryPolicy
	tokenizer    *tiktoken.Tiktoken
}

// New creates a Client. The tokenizer is best-effort: when unavailable the
// prompt budget falls back to a character approximation.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		maxTokens:    cfg.MaxTokens,
		promptBudget: cfg.MaxPromptTokens,
		http:         &http.Client{Timeout: 30 * time.Second},
		retry:        DefaultRetryPolicy(),
	}
	if c.maxTokens <= 0 {
		c.maxTokens = 1024
	}
	if c.promptBudget <= 0 {
		c.promptBudget = 2000
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		slog.Warn("tokenizer unavailable, using character budget", "error", err)
	} else {
		c.tokenizer = enc
	}
	return c
}

// truncate trims text to the prompt token budget.
func (c *Client) truncate(text string) string {
	if c.tokenizer == nil {
		// Rough approximation: four characters per token.
		runes := []rune(text)
		if len(runes) > c.promptBudget*4 {
			return string(runes[:c.promptBudget*4])
		}
		return text
	}
	tokens := c.tokenizer.Encode(text, nil, nil)
	if len(tokens) <= c.promptBudget {
		return text
	}
	return c.tokenizer.Decode(tokens[:c.promptBudget])
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type chatResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// AnalyzeEmotion scores text into the seven emotion dimensions. The score is
// the delta contributed by this text, each value in [0,1].
func (c *Client) AnalyzeEmotion(ctx context.Context, text string) (types.EmotionVector, error) {
	prompt := fmt.Sprintf(
		"Score the emotional content of the following text. Respond with only a JSON object "+
			"with keys joy, anger, sadness, fear, surprise, disgust, trust, each a number between 0 and 1.\n\n%s",
		c.truncate(text),
	)
	req := chatRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
	}

	var resp chatResponse
	if err := c.post(ctx, "/messages", req, &resp); err != nil {
		return types.EmotionVector{}, err
	}
	if len(resp.Content) == 0 {
		return types.EmotionVector{}, fmt.Errorf("empty analysis response")
	}

	raw := extractJSON(resp.Content[0].Text)
	var vector types.EmotionVector
	if err := json.Unmarshal([]byte(raw), &vector); err != nil {
		return types.EmotionVector{}, fmt.Errorf("parse emotion score: %w", err)
	}
	vector.Clamp()
	vector.LastUpdated = time.Now().UnixMilli()
	return vector, nil
}

// extractJSON returns the first top-level JSON object in text. Models often
// wrap the score in prose or code fences.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return text
	}
	return text[start : end+1]
}

type generateRequest struct {
	Instances []struct {
		Prompt string `json:"prompt"`
	} `json:"instances"`
	Parameters struct {
		SampleCount int    `json:"sampleCount"`
		AspectRatio string `json:"aspectRatio"`
	} `json:"parameters"`
}

type generateResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
	Error string `json:"error"`
}

// GenerateImage asks the backend to render prompt and returns the image as
// a self-contained data URL.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	var req generateRequest
	req.Instances = append(req.Instances, struct {
		Prompt string `json:"prompt"`
	}{Prompt: prompt})
	req.Parameters.SampleCount = 1
	req.Parameters.AspectRatio = "1:1"

	var resp generateResponse
	if err := c.post(ctx, "/generate", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("generation failed: %s", resp.Error)
	}
	if len(resp.Predictions) == 0 {
		return "", fmt.Errorf("no image generated")
	}
	p := resp.Predictions[0]
	mime := p.MimeType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + p.BytesBase64Encoded, nil
}

// post sends a JSON request and decodes the JSON response, retrying
// transient failures per the retry policy.
func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	return c.retry.Execute(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("call backend: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(data))}
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}
