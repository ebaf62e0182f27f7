// Package collab holds the collaboration lifecycle models and the pure rules
// around them: statuses, the offer history, the fee matrix, escrow totals and
// deliverable progress.
package collab
