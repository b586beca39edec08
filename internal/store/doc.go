// Package store defines the persistence interfaces the scheduling engine
// depends on, the shared error taxonomy for store implementations, and the
// transaction helper that lets a service span multiple store operations
// atomically.
//
// The review log is append-only: entries are inserted and soft-deleted,
// never updated. Implementations must preserve that discipline.
package store
