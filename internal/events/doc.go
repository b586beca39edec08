// Package events provides a minimal in-process event bus for review
// activity. Services emit events without direct knowledge of the handlers
// that consume them.
package events
