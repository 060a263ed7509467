package models

// Category is the fixed set of expense categories.
type Category string

const (
	CategoryFood       Category = "Food"
	CategoryHotel      Category = "Hotel"
	CategoryTourTicket Category = "Tour-Ticket"
	CategoryFerry      Category = "Ferry"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryFood, CategoryHotel, CategoryTourTicket, CategoryFerry}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// SplitType records how an expense's splits were computed at creation time.
type SplitType string

const (
	// SplitEqual divides the amount evenly across the selected participants.
	SplitEqual SplitType = "equal"
	// SplitUnequal uses caller-supplied per-participant amounts that must add up to the total.
	SplitUnequal SplitType = "unequal"
	// SplitSpecific assigns the whole amount to a single participant.
	SplitSpecific SplitType = "specific"
)

// Valid reports whether t is one of the known split types.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitUnequal, SplitSpecific:
		return true
	}
	return false
}

// Split is one participant's owed share of an expense.
type Split struct {
	ParticipantID string
	OwedAmount    float64
}

// PaymentEntry is the stored settlement state of one participant's share.
type PaymentEntry struct {
	// Paid marks the share as fully settled. When true, PartialAmount is ignored.
	Paid bool

	// PartialAmount is how much of the share has been paid so far.
	// Nil means nothing has been recorded.
	PartialAmount *float64
}

// PaymentStatus maps participant ID to its payment entry.
// A participant without an entry is unpaid with no partial amount.
type PaymentStatus map[string]PaymentEntry

// Lookup returns the entry for a participant and whether one was stored.
// A nil map behaves like an empty one.
func (s PaymentStatus) Lookup(participantID string) (PaymentEntry, bool) {
	if s == nil {
		return PaymentEntry{}, false
	}
	entry, ok := s[participantID]
	return entry, ok
}

// Expense is a single payment fronted by one participant and split among others.
type Expense struct {
	// ID is the unique identifier (UUID format), assigned on creation and never reused.
	ID string

	// Amount is the positive total in the ledger's single currency.
	Amount float64

	// Description is the required free-text label (e.g., "Dinner at the harbour").
	Description string

	// Category is one of Categories.
	Category Category

	// Date is the calendar date of the expense in YYYY-MM-DD form.
	Date string

	// PaidBy is the ID of the participant who fronted the money.
	PaidBy string

	// SplitType is how Splits was computed.
	SplitType SplitType

	// Splits lists who owes what, in allocation order.
	// Their sum matches Amount within 0.01 at creation; it is not re-validated later.
	Splits []Split

	// PaymentStatus tracks settlement per participant. Sparse; see PaymentStatus.
	PaymentStatus PaymentStatus

	// CreatedAt is the Unix timestamp when the expense was stored.
	CreatedAt int64
}

// SplitFor returns the split entry naming participantID, if any.
func (e *Expense) SplitFor(participantID string) (Split, bool) {
	for _, s := range e.Splits {
		if s.ParticipantID == participantID {
			return s, true
		}
	}
	return Split{}, false
}

// Balance is a participant's derived net position across all expenses.
// Positive means the group owes them money; negative means they owe the group.
type Balance struct {
	ParticipantID string
	DisplayName   string
	ColorTag      string
	NetBalance    float64
}
