package models

// DefaultWeight is the participant weight used when none is given.
const DefaultWeight = 1.0

// Activity represents a shared expense event.
type Activity struct {
	// ID is the unique identifier for the activity (UUID format).
	ID string

	// Name describes the expense (e.g. "Lunch", "Taxi").
	Name string

	// Amount is the total cost in the smallest currency unit. Always > 0.
	Amount int64

	// PayerID is the member who fronted the money.
	PayerID string

	// CreatedAt is the Unix timestamp when the activity was created.
	CreatedAt int64
}

// Participant links an activity to a member sharing its cost.
// (ActivityID, MemberID) is unique.
type Participant struct {
	// ID is the unique identifier for the link (UUID format).
	ID string

	// ActivityID is the activity being shared.
	ActivityID string

	// MemberID is the member sharing it.
	MemberID string

	// Weight is the member's relative share. Stored but not used by the
	// balance calculation, which divides equally.
	Weight float64
}

// ActivityWithParticipants is an activity resolved with its payer and the
// active members participating in it.
type ActivityWithParticipants struct {
	Activity

	// Payer is the member who paid.
	Payer Member

	// Participants are the active members sharing the cost.
	Participants []Member
}
