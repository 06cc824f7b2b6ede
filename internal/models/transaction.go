package models

// Transaction is a settlement instruction from a debtor to a creditor.
//
// Proposed transactions produced by the settlement planner have no ID and are
// never stored; a Transaction gets an ID once a user persists it.
type Transaction struct {
	// ID is the unique identifier (UUID format). Empty for proposed transactions.
	ID string

	// FromMemberID is the debtor sending money.
	FromMemberID string

	// ToMemberID is the creditor receiving money.
	ToMemberID string

	// Amount is the transfer amount in the smallest currency unit. Always > 0.
	Amount int64

	// Completed is true once the transfer has been made.
	Completed bool

	// CreatedAt is the Unix timestamp when the transaction was persisted.
	CreatedAt int64
}

// TransactionWithMembers is a transaction resolved with both members for display.
type TransactionWithMembers struct {
	Transaction

	From Member
	To   Member
}
