// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package httpx

import (
	"net/http"
	"testing"
	"time"

	"github.com/opensourcescore/score/internal/httpx/httpxtest"
)

func TestWithUserAgent(t *testing.T) {
	var seen string
	inner := clientFunc(func(req *http.Request) (*http.Response, error) {
		seen = req.Header.Get("User-Agent")
		return &http.Response{StatusCode: 200, Body: httpxtest.Body("")}, nil
	})
	c := &WithUserAgent{BasicClient: inner, UserAgent: "score/1.0"}
	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	if _, err := c.Do(req); err != nil {
		t.Fatal(err)
	}
	if seen != "score/1.0" {
		t.Errorf("User-Agent = %q, want score/1.0", seen)
	}
}

type clientFunc func(*http.Request) (*http.Response, error)

func (f clientFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func TestRetryClientRetriesServerErrors(t *testing.T) {
	var calls int
	inner := clientFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		if calls < 3 {
			return &http.Response{StatusCode: 503, Body: httpxtest.Body("")}, nil
		}
		return &http.Response{StatusCode: 200, Body: httpxtest.Body("ok")}, nil
	})
	c := &RetryClient{BasicClient: inner, MaxRetries: 5, BaseInterval: time.Millisecond}
	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	resp, err := c.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	inner := clientFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{StatusCode: 404, Body: httpxtest.Body("")}, nil
	})
	c := &RetryClient{BasicClient: inner, MaxRetries: 5, BaseInterval: time.Millisecond}
	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	resp, err := c.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryClientExhaustsRetries(t *testing.T) {
	var calls int
	inner := clientFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{StatusCode: 500, Body: httpxtest.Body("")}, nil
	})
	c := &RetryClient{BasicClient: inner, MaxRetries: 2, BaseInterval: time.Millisecond}
	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	resp, err := c.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 500 {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (initial + 2 retries)", calls)
	}
}
