// Package collab contains table-level repos for the collaboration lifecycle.
// Multi-table writes go through internal/data/aggregates.
package collab
