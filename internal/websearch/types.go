// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package websearch

import (
	"strings"
)

// SnippetLimit is the maximum snippet length in runes. Longer snippets are
// truncated with a trailing ellipsis.
const SnippetLimit = 300

// =============================================================================
// SOURCE RESULT
// =============================================================================

// SourceResult is the outcome of one source lookup: a bounded snippet and an
// optional citation link. The zero value means the source yielded nothing;
// a failed call and an empty answer are deliberately not distinguished here.
type SourceResult struct {
	Snippet string
	URL     string
}

// IsZero reports whether the source yielded nothing.
func (r SourceResult) IsZero() bool {
	return r.Snippet == ""
}

// =============================================================================
// CONTEXT
// =============================================================================

// Context is the merged outcome of one aggregate call: labeled snippet
// blocks in fixed source order (encyclopedia first, instant-answer second)
// plus the matching citation list. An empty Context is a valid state,
// distinct from "search not attempted" — the caller must fall back to the
// unenriched query when Empty reports true.
type Context struct {
	Blocks    []string
	Citations []string
}

// Empty reports whether no source contributed anything.
func (c Context) Empty() bool {
	return len(c.Blocks) == 0
}

// Text returns the concatenated snippet blocks, or "" for an empty context.
func (c Context) Text() string {
	return strings.Join(c.Blocks, "\n\n")
}
