// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the client for the text and image inference
// endpoint.
//
// The endpoint exposes two routes with a shared wire format: the request is
// a single JSON object carrying a prompt string, and the reply carries a
// status plus either generated text or a generated image URL. Replies whose
// status is not "success" surface as *APIError, keeping application-level
// failures distinguishable from transport errors. The client performs no
// retries; fallback policy belongs to the caller.
package api
