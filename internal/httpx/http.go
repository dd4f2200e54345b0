// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package httpx provides a simpler http.Client abstraction and derivative uses.
package httpx

import (
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// BasicClient is a simpler http.Client that only requires a Do method.
type BasicClient interface {
	Do(*http.Request) (*http.Response, error)
}

var _ BasicClient = http.DefaultClient

// WithUserAgent is a basic HTTP client that adds a User-Agent header.
type WithUserAgent struct {
	BasicClient
	UserAgent string
}

var _ BasicClient = &WithUserAgent{}

// Do adds the User-Agent header and sends the request.
func (c *WithUserAgent) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.UserAgent)
	return c.BasicClient.Do(req)
}

// RetryClient retries server errors with exponential backoff. Client errors
// (4xx) are stable answers and are returned immediately, as are transport
// errors. After exhausting its retries the last 5xx response is returned so
// callers can report the upstream status.
type RetryClient struct {
	BasicClient
	// MaxRetries is the number of re-attempts after the initial request.
	// Zero means the default of 5.
	MaxRetries uint64
	// BaseInterval is the first backoff delay. Zero means 100ms.
	BaseInterval time.Duration
}

var _ BasicClient = &RetryClient{}

func (c *RetryClient) Do(req *http.Request) (*http.Response, error) {
	retries := c.MaxRetries
	if retries == 0 {
		retries = 5
	}
	base := c.BaseInterval
	if base == 0 {
		base = 100 * time.Millisecond
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = base
	bo.Reset()
	for attempt := uint64(0); ; attempt++ {
		resp, err := c.BasicClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 500 || resp.StatusCode > 599 || attempt == retries {
			return resp, nil
		}
		resp.Body.Close()
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(bo.NextBackOff()):
		}
	}
}
