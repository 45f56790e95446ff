package app

import "strings"

// Span attributes get unwieldy with multi-line SQL; collapse whitespace and
// cap the length before the query is attached to a trace.
const tracedQueryLimit = 512

func formatDBQueryForTrace(query string) string {
	compact := strings.Join(strings.Fields(query), " ")
	if len(compact) > tracedQueryLimit {
		return compact[:tracedQueryLimit] + "..."
	}
	return compact
}
