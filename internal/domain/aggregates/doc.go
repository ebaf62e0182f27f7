// Package aggregates defines domain-facing aggregate contracts.
//
// Contracts carry no persistence or transport detail; each write method is a
// boundary where candidate, offer, contract, escrow and deliverable
// invariants hold atomically.
package aggregates
