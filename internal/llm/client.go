// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

// Package llm implements a client for OpenAI compatible
// chat completion endpoints.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/isac-bench/isac_bench/util"
)

// Roles of chat messages.
const (
	System = "system"
	User   = "user"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a chat completion request.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Completer creates completions for requests.
type Completer interface {
	Complete(ctx context.Context, req *Request) (string, error)
}

// ErrNoChoices is returned if a response has no choices.
var ErrNoChoices = errors.New("no choices in response")

// StatusError is returned if the endpoint does not answer with 200 OK.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (se *StatusError) Error() string {
	if se.Message == "" {
		return fmt.Sprintf("completion failed: %s", se.Status)
	}
	return fmt.Sprintf("completion failed: %s: %s", se.Status, se.Message)
}

// Temporary returns true if a retry may succeed.
func (se *StatusError) Temporary() bool {
	return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
}

// Client is a client for a chat completion endpoint.
type Client struct {
	// URL is the base URL of the API, e.g. https://api.openai.com/v1
	URL string
	// Key is the API key. It is sent as bearer token.
	Key string
	// HTTP is used to do the requests.
	HTTP util.Client
	// Retries is the number of further attempts on temporary failures.
	Retries int
	// Backoff is the wait time before the first retry.
	// It grows linearly with each attempt.
	Backoff time.Duration
	// Cache stores successful completions if not nil.
	Cache *Cache
}

// Close closes the cache of the client.
func (c *Client) Close() error {
	if c.Cache != nil {
		return c.Cache.Close()
	}
	return nil
}

// Complete sends the request and returns the content of the first choice.
func (c *Client) Complete(ctx context.Context, req *Request) (string, error) {

	var k []byte

	if c.Cache != nil {
		var err error
		if k, err = key(req); err != nil {
			return "", err
		}
		content, err := c.Cache.get(k)
		if !errors.Is(err, errNotFound) {
			if err != nil {
				return "", err
			}
			slog.Debug("Cached completion", "model", req.Model)
			return content, nil
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	endpoint, err := url.JoinPath(c.URL, "chat/completions")
	if err != nil {
		return "", err
	}

	for attempt := 0; ; attempt++ {
		content, err := c.post(ctx, endpoint, body)
		if err == nil {
			if k != nil {
				if err := c.Cache.set(k, content); err != nil {
					return content, err
				}
			}
			return content, nil
		}
		var se *StatusError
		if !errors.As(err, &se) || !se.Temporary() || attempt >= c.Retries {
			return "", err
		}
		wait := c.Backoff * time.Duration(attempt+1)
		slog.Warn("Retrying completion",
			"model", req.Model,
			"status", se.StatusCode,
			"attempt", attempt+1,
			"wait", wait)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type completion struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Key != "" {
		req.Header.Set("Authorization", "Bearer "+c.Key)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer util.DrainClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		se := &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
		var ae apiError
		if json.Unmarshal(data, &ae) == nil && ae.Error.Message != "" {
			se.Message = ae.Error.Message
		} else {
			se.Message = strings.TrimSpace(string(data))
		}
		return "", se
	}

	var comp completion
	if err := json.NewDecoder(resp.Body).Decode(&comp); err != nil {
		return "", fmt.Errorf("decoding completion failed: %w", err)
	}
	if len(comp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return comp.Choices[0].Message.Content, nil
}
