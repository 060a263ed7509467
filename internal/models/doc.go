// Package models defines the core domain models for tripledger.
//
// # Models
//
//   - Participant: a member of the fixed trip roster (supplied by configuration)
//   - Expense: a single payment fronted by one participant and split among others
//   - Split: one participant's owed share of an expense
//   - PaymentEntry: settlement progress of one participant's share
//   - User: an account that can log in to view or edit the ledger
//
// # Design Principles
//
// 1. **Roster is data, not code**: participants come from configuration and are passed
// into every calculation, so nothing here holds global state.
// 2. **IDs, not pointers**: expenses reference participants by ID string.
// 3. **Sparse payment status**: an expense only stores entries for participants whose
// status was changed; a missing entry means "unpaid, nothing paid yet".
// 4. **No rounding**: amounts are stored as entered; rounding happens at display time.
package models
