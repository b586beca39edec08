// Package fsrs implements the FSRS scheduling computations: retrievability
// estimation, stability and difficulty updates, the state transition table,
// and interval calculation with clamping and optional fuzzing.
//
// Everything in this package is a pure function of its inputs. The current
// time and the randomness source for fuzzing are injected by the caller,
// which keeps scheduling deterministic under test and safe to replay.
package fsrs
