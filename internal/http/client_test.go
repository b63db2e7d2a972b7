// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/wneessen/weatherdash/internal/logger"
	"github.com/wneessen/weatherdash/internal/testhelper"
)

type testType struct {
	String string  `json:"string"`
	Int    int     `json:"int"`
	Float  float64 `json:"float"`
	Bool   bool    `json:"bool"`
}

const testFile = "../../testdata/testtype.json"

func TestNew(t *testing.T) {
	t.Run("new client uses the default timeout", func(t *testing.T) {
		client := New(logger.New(slog.LevelInfo), 0)
		if client == nil {
			t.Fatal("expected client to be non-nil")
		}
		if client.Timeout != DefaultTimeout {
			t.Errorf("expected timeout to be %s, got %s", DefaultTimeout, client.Timeout)
		}
	})
	t.Run("new client disables keep-alives", func(t *testing.T) {
		client := New(logger.New(slog.LevelInfo), time.Second*3)
		transport, ok := client.Transport.(*stdhttp.Transport)
		if !ok {
			t.Fatalf("expected transport to be *http.Transport, got %T", client.Transport)
		}
		if !transport.DisableKeepAlives {
			t.Error("expected keep-alives to be disabled")
		}
		if client.Timeout != time.Second*3 {
			t.Errorf("expected timeout to be 3s, got %s", client.Timeout)
		}
	})
}

func TestClient_Get(t *testing.T) {
	t.Run("getting and serializing JSON should work", func(t *testing.T) {
		var gotReq *stdhttp.Request
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			gotReq = req
			data, err := os.Open(testFile)
			if err != nil {
				t.Fatalf("failed to open JSON response file: %s", err)
			}
			return &stdhttp.Response{
				StatusCode: 200,
				Body:       data,
				Header:     make(stdhttp.Header),
			}, nil
		}

		client := New(logger.New(slog.LevelInfo), 0)
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}
		query := url.Values{}
		query.Add("q", "Manila")
		headers := map[string]string{"X-Custom-Header": "custom-value"}

		target := new(testType)
		code, err := client.Get(t.Context(), "https://example.com/weather", target, query, headers)
		if err != nil {
			t.Fatalf("failed to get JSON response: %s", err)
		}
		if code != 200 {
			t.Errorf("expected status code 200, got %d", code)
		}
		if target.String != "test" {
			t.Errorf("expected target string to be 'test', got %s", target.String)
		}
		if target.Int != 123 {
			t.Errorf("expected target int to be 123, got %d", target.Int)
		}
		if target.Float != 123.456 {
			t.Errorf("expected target float to be 123.456, got %f", target.Float)
		}
		if !target.Bool {
			t.Error("expected target bool to be true")
		}
		if gotReq.URL.Query().Get("q") != "Manila" {
			t.Errorf("expected query parameter q to be Manila, got %q", gotReq.URL.Query().Get("q"))
		}
		if gotReq.Header.Get("X-Custom-Header") != "custom-value" {
			t.Errorf("expected custom header to be set, got %q", gotReq.Header.Get("X-Custom-Header"))
		}
		if gotReq.Header.Get("User-Agent") != UserAgent {
			t.Errorf("expected user agent %q, got %q", UserAgent, gotReq.Header.Get("User-Agent"))
		}
	})
	t.Run("non-2xx responses return a status error with the body", func(t *testing.T) {
		body := `{"cod":"404","message":"city not found"}`
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return testhelper.BodyResponse(404, []byte(body)), nil
		}
		client := New(logger.New(slog.LevelInfo), 0)
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}

		target := new(testType)
		code, err := client.Get(t.Context(), "https://example.com", target, nil, nil)
		if err == nil {
			t.Fatal("expected get to fail")
		}
		if code != 404 {
			t.Errorf("expected status code 404, got %d", code)
		}
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected error to be a *StatusError, got %T", err)
		}
		if string(statusErr.Body) != body {
			t.Errorf("expected body %q, got %q", body, statusErr.Body)
		}
	})
	t.Run("unmarshalling into non-pointer should fail", func(t *testing.T) {
		client := New(logger.New(slog.LevelInfo), 0)
		var target testType
		_, err := client.Get(t.Context(), "https://example.com", target, nil, nil)
		if err == nil {
			t.Fatal("expected get to fail")
		}
		if !errors.Is(err, ErrNonPointerTarget) {
			t.Errorf("expected error to be %s, got %s", ErrNonPointerTarget, err)
		}
	})
	t.Run("parsing an invalid url should fail", func(t *testing.T) {
		client := New(logger.New(slog.LevelInfo), 0)
		target := new(testType)
		_, err := client.Get(t.Context(), "http://example.com/xyz%", target, nil, nil)
		if err == nil {
			t.Fatal("expected get to fail")
		}
		if !strings.Contains(err.Error(), "failed to parse URL") {
			t.Errorf("expected error to contain 'failed to parse URL', got %s", err)
		}
	})
	t.Run("get request fails", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return nil, errors.New("intentionally failing")
		}
		client := New(logger.New(slog.LevelInfo), 0)
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}

		target := new(testType)
		_, err := client.Get(t.Context(), "https://example.com", target, nil, nil)
		if err == nil {
			t.Fatal("expected get request to fail")
		}
		if !strings.Contains(err.Error(), "failed to perform HTTP request") {
			t.Errorf("expected error to contain 'failed to perform HTTP request', got %s", err)
		}
	})
	t.Run("invalid JSON body fails to decode", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return &stdhttp.Response{
				StatusCode: 200,
				Body:       &failReadCloser{},
				Header:     make(stdhttp.Header),
			}, nil
		}
		client := New(logger.NewLogger(slog.LevelInfo, io.Discard), 0)
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}

		target := new(testType)
		_, err := client.Get(t.Context(), "https://example.com", target, nil, nil)
		if err == nil {
			t.Fatal("expected get request to fail")
		}
		if !strings.Contains(err.Error(), "failed to decode JSON") {
			t.Errorf("expected error to contain 'failed to decode JSON', got %s", err)
		}
	})
}

func TestClient_GetWithTimeout(t *testing.T) {
	t.Run("get request fails on deadline", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		}
		client := New(logger.New(slog.LevelInfo), 0)
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}

		target := new(testType)
		_, err := client.GetWithTimeout(t.Context(), "https://example.com", target, nil, nil, time.Millisecond)
		if err == nil {
			t.Fatal("expected get request to fail")
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected error to be %s, got %s", context.DeadlineExceeded, err)
		}
	})
}

type failReadCloser struct{}

func (failReadCloser) Read(p []byte) (int, error) { return len(p), nil }
func (failReadCloser) Close() error               { return errors.New("failed to close") }
