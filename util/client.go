// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package util

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client is an interface to abstract http.Client.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// RoundTrip describes a finished request for logging.
type RoundTrip struct {
	Method   string
	URL      string
	Status   int // 0 if the request failed
	Duration time.Duration
	Err      error
}

// LoggingClient is a client that logs the requests it has done.
type LoggingClient struct {
	Client
	// Log is called after each request. Defaults to
	// a debug message of the default logger.
	Log func(RoundTrip)
}

// LimitingClient is a Client implementing rate throttling.
type LimitingClient struct {
	Client
	Limiter *rate.Limiter
}

// HeaderClient adds extra HTTP header fields to requests.
type HeaderClient struct {
	Client
	Header http.Header
}

// Do implements the respective method of the [Client] interface.
func (hc *HeaderClient) Do(req *http.Request) (*http.Response, error) {
	// Work on a copy to not alter the header of the caller.
	orig := req.Header
	defer func() { req.Header = orig }()

	req.Header = req.Header.Clone()
	if req.Header == nil {
		req.Header = http.Header{}
	}

	for key, values := range hc.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return hc.Client.Do(req)
}

// Do implements the respective method of the [Client] interface.
func (lc *LoggingClient) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := lc.Client.Do(req)
	rt := RoundTrip{
		Method:   req.Method,
		URL:      req.URL.Redacted(),
		Duration: time.Since(start),
		Err:      err,
	}
	if resp != nil {
		rt.Status = resp.StatusCode
	}
	if lc.Log != nil {
		lc.Log(rt)
	} else {
		slog.Debug("http",
			"method", rt.Method,
			"url", rt.URL,
			"status", rt.Status,
			"duration", rt.Duration,
			"err", rt.Err)
	}
	return resp, err
}

// Do implements the respective method of the [Client] interface.
// It blocks until the limiter allows the request or the
// context of the request is done.
func (lc *LimitingClient) Do(req *http.Request) (*http.Response, error) {
	if err := lc.Limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return lc.Client.Do(req)
}

// DrainClose reads the rest of a response body and closes it
// so the underlying connection can be reused.
func DrainClose(body io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, body)
	return body.Close()
}
