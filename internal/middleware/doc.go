// Package middleware provides the HTTP middleware chain: request logging
// with injection-safe field sanitization, and Prometheus request metrics
// with low-cardinality path labels.
package middleware
