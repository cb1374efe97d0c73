// Package audit produces one append-only record for each qualifying
// request/response pair and for authentication lifecycle events. Recording
// is best-effort: a failed write never changes the outcome of the request
// that triggered it.
package audit

import (
	"strings"
	"time"
)

// Auth lifecycle action literals.
const (
	ActionLogin       = "login"
	ActionLogout      = "logout"
	ActionLoginFailed = "login_failed"
	ActionRegistered  = "registered"
)

// PageSize is the fixed page size for audit log listings.
const PageSize = 50

// credentialFields are request input keys whose values must never reach the
// audit store.
var credentialFields = []string{
	"password",
	"password_confirmation",
	"_token",
}

// skippedPathPrefixes are asset paths that produce no telemetry.
var skippedPathPrefixes = []string{
	"/storage/",
	"/vendor/",
}

var mutatingMethods = map[string]bool{
	"POST":   true,
	"PUT":    true,
	"PATCH":  true,
	"DELETE": true,
}

// ShouldLog decides whether a request/response pair is recorded: asset
// requests never are; otherwise any mutating method is, and so is any
// response with an error status regardless of method.
func ShouldLog(method, path string, statusCode int) bool {
	for _, prefix := range skippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return mutatingMethods[strings.ToUpper(method)] || statusCode >= 400
}

// SanitizeInputs returns a copy of the request inputs with credential
// fields removed.
func SanitizeInputs(inputs map[string]interface{}) map[string]interface{} {
	if inputs == nil {
		return map[string]interface{}{}
	}
	sanitized := make(map[string]interface{}, len(inputs))
	for k, v := range inputs {
		if isCredentialField(k) {
			continue
		}
		sanitized[k] = v
	}
	return sanitized
}

func isCredentialField(key string) bool {
	lower := strings.ToLower(key)
	for _, f := range credentialFields {
		if lower == f {
			return true
		}
	}
	return false
}

// Entry is everything the recorder needs to persist one record.
type Entry struct {
	UserID     *string
	Action     string
	IPAddress  string
	UserAgent  string
	RouteName  *string
	Method     string
	URL        string
	TargetType *string
	TargetID   *string
	StatusCode *int
	Message    *string
	Meta       map[string]interface{}
	Context    map[string]interface{}
	OccurredAt time.Time
}

// WriteResult reports the outcome of a best-effort audit write. The outer
// handler logs and discards it; a failed write never propagates to the
// caller's control flow.
type WriteResult struct {
	Err error
}

func (r WriteResult) Failed() bool {
	return r.Err != nil
}
