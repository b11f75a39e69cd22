// Package readiness provides bounded polling helpers that wait for Kubernetes
// resources to become ready.
//
// Every wait is bounded by a deadline. When the deadline passes the helpers
// return an error matching ErrTimeoutExceeded; when the caller's context is
// cancelled first they return the context error instead.
package readiness
