// Package client talks to the chat endpoints on behalf of a patient or doctor
// and keeps a local view of one consultation up to date.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"HealthLife/config/jwt"
	"HealthLife/models"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

type Client struct {
	baseURL string
	token   string
	role    string
	http    *http.Client
}

// New builds a client for role, one of jwt.RoleUser or jwt.RoleDoctor.
func New(baseURL, token, role string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		role:    role,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) chatsPath() string {
	if c.role == jwt.RoleDoctor {
		return "/api/doctor/chats"
	}
	return "/api/chats"
}

func (c *Client) sendPath() string {
	if c.role == jwt.RoleDoctor {
		return "/api/doctor/chats/reply"
	}
	return "/api/chats/message"
}

type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Chat    *models.Chat `json:"chat"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*models.Chat, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: "unreadable response"}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if env.Chat == nil {
		return nil, &APIError{Status: resp.StatusCode, Message: "response carries no chat"}
	}
	return env.Chat, nil
}

// GetChat fetches one consultation with its full message list.
func (c *Client) GetChat(ctx context.Context, chatID string) (*models.Chat, error) {
	return c.do(ctx, http.MethodGet, c.chatsPath()+"/single/"+chatID, nil)
}

// Send appends text as a message from the client's role.
func (c *Client) Send(ctx context.Context, chatID, text string) (*models.Chat, error) {
	return c.do(ctx, http.MethodPost, c.sendPath(), models.ChatMessageRequest{ChatID: chatID, Text: text})
}
