// Package mocks provides in-memory implementations of the store interfaces
// for use in tests. The fakes are safe for concurrent use and support
// per-method error injection via Fn fields.
package mocks
