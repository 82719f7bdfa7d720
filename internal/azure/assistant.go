package azure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RunAssistant drives the assistants flow for the given assistant id:
// create a thread, post the user message, start a run with the system
// prompt as additional instructions, poll it to completion, and return the
// newest assistant message.
func (c *Client) RunAssistant(ctx context.Context, assistantID, systemPrompt, userPrompt string) (string, error) {
	if assistantID == "" {
		return "", errors.New("assistant id is required")
	}

	threadID, err := c.createThread(ctx)
	if err != nil {
		return "", err
	}
	if err := c.addMessage(ctx, threadID, userPrompt); err != nil {
		return "", err
	}
	runID, err := c.startRun(ctx, threadID, assistantID, systemPrompt)
	if err != nil {
		return "", err
	}
	if err := c.waitForRun(ctx, threadID, runID); err != nil {
		return "", err
	}
	return c.assistantReply(ctx, threadID)
}

func (c *Client) createThread(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/openai/threads?api-version=%s", c.endpoint, c.apiVersion)
	var created struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, url, map[string]any{}, &created); err != nil {
		return "", fmt.Errorf("thread creation failed: %w", err)
	}
	return created.ID, nil
}

func (c *Client) addMessage(ctx context.Context, threadID, content string) error {
	url := fmt.Sprintf("%s/openai/threads/%s/messages?api-version=%s", c.endpoint, threadID, c.apiVersion)
	if err := c.postJSON(ctx, url, map[string]any{"role": "user", "content": content}, nil); err != nil {
		return fmt.Errorf("message creation failed: %w", err)
	}
	return nil
}

func (c *Client) startRun(ctx context.Context, threadID, assistantID, instructions string) (string, error) {
	url := fmt.Sprintf("%s/openai/threads/%s/runs?api-version=%s", c.endpoint, threadID, c.apiVersion)
	payload := map[string]any{"assistant_id": assistantID}
	if instructions != "" {
		payload["additional_instructions"] = instructions
	}
	var started struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, url, payload, &started); err != nil {
		return "", fmt.Errorf("run creation failed: %w", err)
	}
	return started.ID, nil
}

// waitForRun polls the run status once a second until it completes or the
// attempt budget runs out.
func (c *Client) waitForRun(ctx context.Context, threadID, runID string) error {
	url := fmt.Sprintf("%s/openai/threads/%s/runs/%s?api-version=%s", c.endpoint, threadID, runID, c.apiVersion)
	for attempt := 0; attempt < assistantPollMax; attempt++ {
		var status struct {
			Status string `json:"status"`
		}
		if err := c.getJSON(ctx, url, &status); err != nil {
			return fmt.Errorf("run status check failed: %w", err)
		}
		switch status.Status {
		case "completed":
			return nil
		case "failed", "cancelled", "expired":
			return fmt.Errorf("assistant run %s", status.Status)
		}
		c.sleep(time.Second)
	}
	return errors.New("assistant run timed out")
}

func (c *Client) assistantReply(ctx context.Context, threadID string) (string, error) {
	url := fmt.Sprintf("%s/openai/threads/%s/messages?api-version=%s", c.endpoint, threadID, c.apiVersion)
	var listing struct {
		Data []struct {
			Role    string `json:"role"`
			Content []struct {
				Text struct {
					Value string `json:"value"`
				} `json:"text"`
			} `json:"content"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, url, &listing); err != nil {
		return "", fmt.Errorf("messages retrieval failed: %w", err)
	}
	// Messages are listed newest first.
	for _, msg := range listing.Data {
		if msg.Role == "assistant" && len(msg.Content) > 0 {
			return msg.Content[0].Text.Value, nil
		}
	}
	return "", errors.New("no assistant response found")
}

func (c *Client) postJSON(ctx context.Context, url string, payload any, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := c.post(ctx, url, body)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target)
}

func (c *Client) getJSON(ctx context.Context, url string, target any) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target)
}

func decodeJSON(resp *http.Response, target any) error {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	if target == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
