package utils

import "net/http"

// CallerIDHeader carries the authenticated user id resolved by the upstream
// identity gate. An absent header means the request is unauthenticated.
const CallerIDHeader = "X-User-Id"

// CallerID extracts the authenticated caller's user id from the request.
// Returns "" when the request carries no identity.
func CallerID(r *http.Request) string {
	return r.Header.Get(CallerIDHeader)
}
