// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package websearch gathers live context for a query from two independent
// public knowledge sources: Wikipedia's search API and the DuckDuckGo
// Instant Answer API. The two lookups run concurrently and both always
// settle before the aggregate returns; a failed or empty source simply
// contributes nothing. Neither lookup requires an API key.
package websearch
