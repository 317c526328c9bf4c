// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(srv.URL).WithHTTPClient(srv.Client())
	return c, srv
}

func TestChatSuccess(t *testing.T) {
	var gotPath string
	var gotBody promptRequest

	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{
			"status": "success",
			"text":   "generated answer",
		})
	})
	defer srv.Close()

	text, err := c.Chat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "generated answer", text)
	assert.Equal(t, "/chat", gotPath)
	assert.Equal(t, "hello", gotBody.Prompt)
}

func TestImageSuccess(t *testing.T) {
	var gotPath string

	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]string{
			"status":   "success",
			"imageUrl": "https://img.example/cat.png",
		})
	})
	defer srv.Close()

	url, err := c.Image(context.Background(), "a cat")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/cat.png", url)
	assert.Equal(t, "/image", gotPath)
}

func TestNonSuccessStatusIsAPIError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "error",
			"message": "model overloaded",
		})
	})
	defer srv.Close()

	_, err := c.Chat(context.Background(), "q")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "error", apiErr.Status)
	assert.Equal(t, http.StatusOK, apiErr.HTTPStatus)
	assert.Contains(t, apiErr.Error(), "model overloaded")
}

func TestHTTPErrorIsAPIError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer srv.Close()

	_, err := c.Chat(context.Background(), "q")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.HTTPStatus)
}

func TestSuccessWithEmptyPayload(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	})
	defer srv.Close()

	_, err := c.Chat(context.Background(), "q")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = c.Image(context.Background(), "q")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNotConfigured(t *testing.T) {
	c := NewClient("")
	_, err := c.Chat(context.Background(), "q")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL)
	_, err := c.Chat(context.Background(), "q")
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
