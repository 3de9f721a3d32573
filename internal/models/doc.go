// Package models defines the core domain models for tripsettle.
//
// # Model Overview
//
//   - Room: one settlement context (a trip) with a member list
//   - Expense: a shared cost fronted by one member, split EQUAL or per ITEM
//   - LineItem: one row of an ITEM expense (per-person or shared-split)
//   - Transfer: a derived, directed pairwise debt (never persisted as a whole)
//   - TransferStatus: the persisted request/done lifecycle of one transfer
//   - User: a registered account; the display name is the identity string
//     used everywhere else
//
// # Design Principles
//
//  1. Amounts are integers in the smallest currency unit. No floats anywhere
//     in money math except the single rounding step of a share.
//  2. Transfers are recomputed from expenses on every read; only their
//     lifecycle state is stored. This keeps derived totals from drifting when
//     expenses are edited or removed.
//  3. Members are identified by display-name strings inside a room, so the
//     settlement engine stays independent of the account layer.
package models
