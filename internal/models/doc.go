// Package models defines the core domain models for groupsplit.
//
// # Stored Models
//
//   - Member: a person in the group; soft-deleted instead of removed
//   - Activity: a shared expense fronted by one payer
//   - Participant: links an Activity to each Member sharing its cost
//   - Transaction: a persisted settlement instruction between two members
//
// # Derived Models
//
//   - ActivityWithParticipants: an Activity resolved with its payer and active participants
//   - TransactionWithMembers: a Transaction resolved with both member records
//
// Balances are not stored; see the calculator package.
//
// # Design Principles
//
// 1. **Integer amounts**: all money is an int64 in the smallest currency unit
// 2. **ID strings**: relationships use UUID strings rather than pointers
// 3. **History first**: members referenced by activities are deactivated, never removed
package models
