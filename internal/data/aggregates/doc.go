// Package aggregates implements the collaboration aggregate on top of the
// table repos in internal/data/repos.
//
// Every write runs in one transaction through executeWrite, which also owns
// retries and hook reporting. Status moves go through CASGuard so a racing
// writer loses cleanly instead of overwriting.
package aggregates
