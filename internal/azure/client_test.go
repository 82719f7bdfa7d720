package azure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/pipecheck/internal/config"
	"github.com/waabox/pipecheck/internal/domain"
)

func testConfig() config.AzureConfig {
	return config.AzureConfig{
		Endpoint:          "https://unused.example.com",
		APIKey:            "test-key",
		Deployment:        "gpt-4",
		APIVersion:        "2024-02-01",
		MaxRetries:        2,
		RetryDelaySeconds: 0.01,
	}
}

// newTestClient points a client at the given server and records backoff
// sleeps instead of waiting.
func newTestClient(t *testing.T, serverURL string) (*Client, *[]time.Duration) {
	t.Helper()
	c, err := New(testConfig(), serverURL)
	require.NoError(t, err)
	var slept []time.Duration
	c.sleep = func(d time.Duration) { slept = append(slept, d) }
	return c, &slept
}

func completionBody(content string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"content":%q}}]}`, content)
}

func TestNewRejectsIncompleteConfig(t *testing.T) {
	_, err := New(config.AzureConfig{Endpoint: "https://example.com"}, "")
	require.Error(t, err)
	var cfgErr *domain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"AZURE_OPENAI_API_KEY", "AZURE_OPENAI_DEPLOYMENT_NAME"}, cfgErr.Missing)
}

func TestGenerateTextSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		assert.Contains(t, r.URL.Path, "/openai/deployments/gpt-4/chat/completions")
		assert.Equal(t, "2024-02-01", r.URL.Query().Get("api-version"))
		fmt.Fprint(w, completionBody("All pipelines look healthy."))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	text, err := c.GenerateText(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "All pipelines look healthy.", text)
}

func TestGenerateTextNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	_, err := c.GenerateText(context.Background(), "system", "user")
	assert.EqualError(t, err, "no choices in response")
}

func TestGenerateJSONStripsMarkdownFence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionBody("```json\n{\"pipelineKey\": \"PROJ-PLAN1\"}\n```"))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	out, err := c.GenerateJSON(context.Background(), "system", "user", "{}")
	require.NoError(t, err)
	assert.Equal(t, "PROJ-PLAN1", out["pipelineKey"])
}

func TestGenerateJSONParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionBody("this is not json"))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	_, err := c.GenerateJSON(context.Background(), "system", "user", "{}")
	var parseErr *domain.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "this is not json", parseErr.Raw)
}

func TestRateLimitHonorsRetryAfter(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, completionBody("recovered"))
	}))
	defer srv.Close()

	c, slept := newTestClient(t, srv.URL)
	text, err := c.GenerateText(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, 2, calls)
	require.Len(t, *slept, 1)
	assert.Equal(t, 2*time.Second, (*slept)[0])
}

func TestRateLimitExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, slept := newTestClient(t, srv.URL)
	_, err := c.GenerateText(context.Background(), "system", "user")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	// maxRetries=2 means three attempts, sleeping between them.
	assert.Len(t, *slept, 2)
}

func TestTransportErrorBacksOffLinearly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // every request now fails at the dial

	c, slept := newTestClient(t, srv.URL)
	_, err := c.GenerateText(context.Background(), "system", "user")
	var transportErr *domain.TransportError
	require.True(t, errors.As(err, &transportErr))
	require.Len(t, *slept, 2)
	assert.Equal(t, c.retryDelay, (*slept)[0])
	assert.Equal(t, 2*c.retryDelay, (*slept)[1])
}

func TestNonRetryableStatusFailsFast(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": "bad request"}`)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	_, err := c.GenerateText(context.Background(), "system", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, 1, calls)
}

func TestEnsureJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantKey string
		wantErr bool
	}{
		{name: "plain object", input: `{"summary": "ok"}`, wantKey: "summary"},
		{name: "fenced with language", input: "```json\n{\"summary\": \"ok\"}\n```", wantKey: "summary"},
		{name: "fenced without language", input: "```\n{\"summary\": \"ok\"}\n```", wantKey: "summary"},
		{name: "surrounding whitespace", input: "  \n{\"summary\": \"ok\"}\n  ", wantKey: "summary"},
		{name: "prose", input: "The pipeline looks fine.", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := EnsureJSON(tc.input)
			if tc.wantErr {
				var parseErr *domain.ParseError
				require.True(t, errors.As(err, &parseErr))
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tc.wantKey)
		})
	}
}
