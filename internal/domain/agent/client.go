package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrSessionExists is returned by CreateSession when the upstream agent
// already holds a session with the same id. Callers treat it as success.
var ErrSessionExists = errors.New("agent session already exists")

// Client talks to the external ADK agent server. All calls are bounded by the
// configured timeout on top of whatever deadline the caller's context carries.
type Client struct {
	baseURL string
	appName string
	timeout time.Duration
	http    *http.Client
}

func NewClient(baseURL, appName string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		appName: appName,
		timeout: timeout,
		http:    &http.Client{},
	}
}

// Event is one entry of the agent's run response. Only the model text parts
// matter to us; everything else is passed through untouched.
type Event struct {
	Content *EventContent `json:"content,omitempty"`
}

type EventContent struct {
	Role  string      `json:"role"`
	Parts []EventPart `json:"parts"`
}

type EventPart struct {
	Text string `json:"text,omitempty"`
}

type upstreamError struct {
	Detail string `json:"detail"`
}

// CreateSession creates a session for the user on the agent server. The
// initial state payload is forwarded verbatim. An "already exists" answer
// from the agent maps to ErrSessionExists.
func (c *Client) CreateSession(ctx context.Context, userID, sessionID string, initialState map[string]interface{}) (map[string]interface{}, error) {
	if initialState == nil {
		initialState = map[string]interface{}{}
	}
	endpoint := fmt.Sprintf("%s/apps/%s/users/%s/sessions/%s",
		c.baseURL, url.PathEscape(c.appName), url.PathEscape(userID), url.PathEscape(sessionID))

	body, status, err := c.post(ctx, endpoint, initialState)
	if err != nil {
		return nil, err
	}

	if status >= http.StatusBadRequest {
		var ue upstreamError
		if json.Unmarshal(body, &ue) == nil && strings.Contains(ue.Detail, "already exists") {
			return nil, ErrSessionExists
		}
		return nil, upstreamFailure("create session", status, ue.Detail)
	}

	var session map[string]interface{}
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}
	return session, nil
}

// Run forwards a user message to the agent and returns the raw event list.
func (c *Client) Run(ctx context.Context, userID, sessionID, message string) ([]json.RawMessage, error) {
	payload := map[string]interface{}{
		"appName":   c.appName,
		"userId":    userID,
		"sessionId": sessionID,
		"newMessage": map[string]interface{}{
			"role": "user",
			"parts": []map[string]string{
				{"text": message},
			},
		},
	}

	body, status, err := c.post(ctx, c.baseURL+"/run", payload)
	if err != nil {
		return nil, err
	}
	if status >= http.StatusBadRequest {
		var ue upstreamError
		_ = json.Unmarshal(body, &ue)
		return nil, upstreamFailure("query agent", status, ue.Detail)
	}

	var events []json.RawMessage
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decode agent events: %w", err)
	}
	return events, nil
}

// ExtractText walks the events backwards and returns the first text part of
// the most recent model message, or a fixed fallback when none exists.
func ExtractText(events []json.RawMessage) string {
	for i := len(events) - 1; i >= 0; i-- {
		var ev Event
		if err := json.Unmarshal(events[i], &ev); err != nil || ev.Content == nil {
			continue
		}
		if ev.Content.Role != "model" {
			continue
		}
		for _, part := range ev.Content.Parts {
			if part.Text != "" {
				return strings.TrimSpace(part.Text)
			}
		}
	}
	return "No response from agent"
}

func (c *Client) post(ctx context.Context, endpoint string, payload interface{}) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("call agent: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read agent response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func upstreamFailure(op string, status int, detail string) error {
	if detail == "" {
		detail = fmt.Sprintf("agent returned status %d", status)
	}
	return fmt.Errorf("%s: %s", op, detail)
}
