// Package domain defines the core business entities of the scheduling
// engine: users, decks, cards, review log entries, and the FSRS parameter
// set, together with their validation rules and shared domain errors.
//
// Entities here carry no persistence or transport concerns. A card's
// scheduling state is never stored on the card itself; it is always derived
// from the latest non-deleted ReviewLog entry for the (user, card) pair.
package domain
