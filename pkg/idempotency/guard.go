// Package idempotency provides a ledger of previously-applied operation
// identifiers, used to suppress duplicate side effects on retry.
package idempotency

// Guard records whether an operation identifier has already taken effect.
// The ledger is append-only: there is no un-recording.
//
// Implementations must support concurrent check-and-record from multiple
// replication attempts racing on the same identifier. A guard without an
// atomic test-and-set admits a race where two concurrent retries both
// observe "not seen" and both execute.
type Guard[ID comparable] interface {
	// Seen reports whether id has been recorded.
	Seen(id ID) bool

	// Record marks id as applied. Record followed by Seen on the same id
	// must return true.
	Record(id ID)
}
