package aggregates

// Policy states what an aggregate guarantees to its callers. Services read
// it once at wiring time and refuse aggregates that would leave them owning
// transactions or audit rows.
type Policy struct {
	Name string
	// OwnsTx: every write method opens and commits its own transaction.
	OwnsTx bool
	// AuditInTx: the audit row commits or rolls back with the state change.
	AuditInTx bool
	// ScopedReads: reads exist only to decide invariants; listings go
	// through table repos.
	ScopedReads bool
	Notes       string
}

// Aggregate is the common marker for all aggregates.
type Aggregate interface {
	Policy() Policy
}

// SafeForPostCommitEffects reports whether callers may fire notifications
// and channel creation after a write returns without re-checking state.
func (p Policy) SafeForPostCommitEffects() bool {
	return p.OwnsTx && p.AuditInTx
}
