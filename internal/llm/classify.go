package llm

import "strings"

// Class is the retry class of a failed model call.
type Class int

const (
	// ClassTransient errors are retried on the linear backoff schedule.
	ClassTransient Class = iota
	// ClassRateLimited errors are retried on the exponential schedule.
	ClassRateLimited
	// ClassAuthFailed errors abort the call immediately.
	ClassAuthFailed
)

// Classifier maps an upstream error to a retry class. The caller takes it
// as a field so a provider with structured error types (grpc status codes,
// typed SDK errors) can replace the message matching without touching the
// retry loop.
type Classifier func(error) Class

var rateLimitMarkers = []string{"429", "rate_limit", "quota", "resource_exhausted"}

var authMarkers = []string{"api key", "authentication", "401", "403", "invalid_argument"}

// ClassifyByMessage is the default classifier. The upstream SDKs do not
// expose their error taxonomy uniformly, so it falls back to
// case-insensitive substring matching on the error text.
func ClassifyByMessage(err error) Class {
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return ClassRateLimited
		}
	}
	for _, marker := range authMarkers {
		if strings.Contains(msg, marker) {
			return ClassAuthFailed
		}
	}
	return ClassTransient
}
