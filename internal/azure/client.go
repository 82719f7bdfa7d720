// Package azure implements the AI completion capability against the Azure
// OpenAI chat completions and assistants APIs.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/waabox/pipecheck/internal/config"
	"github.com/waabox/pipecheck/internal/domain"
)

const (
	maxTokens        = 4000
	topP             = 0.95
	assistantPollMax = 30
)

// Client talks to Azure OpenAI. It is safe for concurrent use; the
// underlying http.Client pools connections.
type Client struct {
	endpoint    string
	apiKey      string
	deployment  string
	apiVersion  string
	assistantID string

	maxRetries int
	retryDelay time.Duration
	apiURL     string
	client     *http.Client

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(time.Duration)
}

var _ domain.Completer = (*Client)(nil)
var _ domain.AssistantRunner = (*Client)(nil)

// New creates a Client from the given settings.
// It fails fast with a domain.ConfigError enumerating every missing
// required setting before any network call is made.
// baseURL overrides the configured endpoint for testing; pass empty string
// to use the real API.
func New(cfg config.AzureConfig, baseURL string) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	endpoint := cfg.Endpoint
	if baseURL != "" {
		endpoint = baseURL
	}
	endpoint = strings.TrimRight(endpoint, "/")
	return &Client{
		endpoint:    endpoint,
		apiKey:      cfg.APIKey,
		deployment:  cfg.Deployment,
		apiVersion:  cfg.APIVersion,
		assistantID: cfg.AssistantID,
		maxRetries:  cfg.Retries(),
		retryDelay:  cfg.RetryDelay(),
		apiURL: fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			endpoint, cfg.Deployment, cfg.APIVersion),
		client: &http.Client{Timeout: cfg.Timeout()},
		sleep:  time.Sleep,
	}, nil
}

// AssistantID returns the configured default assistant id, if any.
func (c *Client) AssistantID() string { return c.assistantID }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Messages         []message `json:"messages"`
	Temperature      float64   `json:"temperature"`
	MaxTokens        int       `json:"max_tokens"`
	TopP             float64   `json:"top_p"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
	PresencePenalty  float64   `json:"presence_penalty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateText returns a text completion for the given prompts.
func (c *Client) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.makeRequest(ctx, []message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, 0.1)
}

// GenerateJSON demands a JSON-only completion and returns the parsed object.
// The system prompt is enhanced to forbid prose and markdown wrapping; any
// code fences that slip through are stripped before parsing.
func (c *Client) GenerateJSON(ctx context.Context, systemPrompt, userPrompt, schemaHint string) (map[string]any, error) {
	enhanced := fmt.Sprintf(`%s

IMPORTANT: You must respond with valid JSON only. Do not include any explanations,
markdown formatting, or text outside the JSON structure.

Expected response schema hint: %s

Respond with valid JSON that matches the expected structure.`, systemPrompt, schemaHint)

	text, err := c.makeRequest(ctx, []message{
		{Role: "system", Content: enhanced},
		{Role: "user", Content: userPrompt},
	}, 0.0)
	if err != nil {
		return nil, err
	}
	return EnsureJSON(text)
}

// makeRequest posts a chat completion with bounded retries. Timeouts and
// transport errors back off linearly on the base delay; 429 responses honor
// the retry-after hint. Retries exhausting surfaces the typed error of the
// last failure.
func (c *Client) makeRequest(ctx context.Context, messages []message, temperature float64) (string, error) {
	payload, err := json.Marshal(completionRequest{
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		TopP:        topP,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		resp, err := c.post(ctx, c.apiURL, payload)
		if err != nil {
			if isTimeout(err) {
				lastErr = domain.ErrTimeout
			} else {
				lastErr = &domain.TransportError{Err: err}
			}
			if attempt < c.maxRetries {
				c.sleep(c.retryDelay * time.Duration(attempt+1))
				continue
			}
			break
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = &domain.TransportError{Err: readErr}
			if attempt < c.maxRetries {
				c.sleep(c.retryDelay * time.Duration(attempt+1))
				continue
			}
			break
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			var parsed completionResponse
			if err := json.Unmarshal(body, &parsed); err != nil {
				return "", fmt.Errorf("decoding response: %w", err)
			}
			if len(parsed.Choices) == 0 {
				return "", errors.New("no choices in response")
			}
			return parsed.Choices[0].Message.Content, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			if attempt < c.maxRetries {
				c.sleep(retryAfter(resp, c.retryDelay))
				continue
			}
			return "", domain.ErrRateLimited

		default:
			return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
	}

	if lastErr == nil {
		lastErr = errors.New("all retry attempts failed")
	}
	return "", lastErr
}

func (c *Client) post(ctx context.Context, url string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)
	return c.client.Do(req)
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)
	return c.client.Do(req)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// retryAfter reads the retry-after hint in seconds, falling back to the base
// delay when absent or malformed.
func retryAfter(resp *http.Response, fallback time.Duration) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs >= 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return fallback
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// EnsureJSON extracts and parses JSON from a raw completion, stripping a
// markdown code fence wrapper if present. A domain.ParseError is returned
// for anything that still fails to parse.
func EnsureJSON(text string) (map[string]any, error) {
	cleaned := strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(cleaned); m != nil {
		cleaned = strings.TrimSpace(m[1])
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, &domain.ParseError{Raw: cleaned, Err: err}
	}
	return out, nil
}
