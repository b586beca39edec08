// Package api provides the HTTP handlers and error mapping for the
// review, study queue, and parameter endpoints. Handlers translate wire
// requests into service calls and map internal errors to sanitized HTTP
// responses.
package api
