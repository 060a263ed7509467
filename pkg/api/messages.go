package api

// Participant is a roster entry.
type Participant struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	ColorTag    string `json:"colorTag"`
}

type ListParticipantsResponse struct {
	Participants []Participant `json:"participants"`
}

// Split is one participant's owed share. OwedAmount is unrounded.
type Split struct {
	ParticipantID     string  `json:"participantId"`
	OwedAmount        float64 `json:"owedAmount"`
	OwedAmountDisplay string  `json:"owedAmountDisplay"`
}

// PaymentEntry is a stored payment status entry.
type PaymentEntry struct {
	Paid          bool     `json:"paid"`
	PartialAmount *float64 `json:"partialAmount,omitempty"`
}

// Expense is the stored expense as seen by clients.
type Expense struct {
	ID            string                  `json:"id"`
	Amount        float64                 `json:"amount"`
	AmountDisplay string                  `json:"amountDisplay"`
	Description   string                  `json:"description"`
	Category      string                  `json:"category"`
	Date          string                  `json:"date"`
	PaidBy        string                  `json:"paidBy"`
	SplitType     string                  `json:"splitType"`
	Splits        []Split                 `json:"splits"`
	PaymentStatus map[string]PaymentEntry `json:"paymentStatus"`
	CreatedAt     int64                   `json:"createdAt"`
}

// CreateExpenseRequest carries the raw form input of a new expense.
// Amount and Proposals are decimal strings, parsed server-side.
type CreateExpenseRequest struct {
	Amount       string            `json:"amount"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	Date         string            `json:"date"`
	PaidBy       string            `json:"paidBy"`
	SplitType    string            `json:"splitType"`
	Participants []string          `json:"participants"`
	Proposals    map[string]string `json:"proposals,omitempty"`
}

type CreateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ID string `json:"id" validate:"required"`
}

// ParticipantStatus is the derived settlement state of one split.
type ParticipantStatus struct {
	ParticipantID    string   `json:"participantId"`
	State            string   `json:"state"`
	Owed             float64  `json:"owed"`
	Partial          *float64 `json:"partial,omitempty"`
	Remaining        float64  `json:"remaining"`
	RemainingDisplay string   `json:"remainingDisplay"`
}

type GetExpenseResponse struct {
	Expense  Expense             `json:"expense"`
	Statuses []ParticipantStatus `json:"statuses"`
	// Progress is the share of splits marked paid; AmountProgress weighs by amount.
	Progress       int `json:"progress"`
	AmountProgress int `json:"amountProgress"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ID string `json:"id" validate:"required"`
}

type UpdatePaymentStatusRequest struct {
	ExpenseID     string   `json:"expenseId" validate:"required"`
	ParticipantID string   `json:"participantId" validate:"required"`
	Paid          bool     `json:"paid"`
	PartialAmount *float64 `json:"partialAmount,omitempty" validate:"omitempty,gte=0"`
}

type UpdatePaymentStatusResponse struct {
	Expense Expense `json:"expense"`
}

// Balance is a participant's net position. Positive means they are owed money.
type Balance struct {
	ParticipantID     string  `json:"participantId"`
	DisplayName       string  `json:"displayName"`
	ColorTag          string  `json:"colorTag"`
	NetBalance        float64 `json:"netBalance"`
	NetBalanceDisplay string  `json:"netBalanceDisplay"`
}

type CategoryTotal struct {
	Category     string  `json:"category"`
	Total        float64 `json:"total"`
	TotalDisplay string  `json:"totalDisplay"`
}

// Transfer is a suggested payment that settles part of the balances.
type Transfer struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	Amount        float64 `json:"amount"`
	AmountDisplay string  `json:"amountDisplay"`
}

type GetSummaryResponse struct {
	// Balances are sorted by net balance, highest first.
	Balances             []Balance       `json:"balances"`
	CategoryTotals       []CategoryTotal `json:"categoryTotals"`
	TotalExpenses        float64         `json:"totalExpenses"`
	TotalExpensesDisplay string          `json:"totalExpensesDisplay"`
	Transfers            []Transfer      `json:"transfers"`
}

type UnpaidTotal struct {
	ParticipantID string  `json:"participantId"`
	DisplayName   string  `json:"displayName"`
	ColorTag      string  `json:"colorTag"`
	Unpaid        float64 `json:"unpaid"`
	UnpaidDisplay string  `json:"unpaidDisplay"`
	FullySettled  bool    `json:"fullySettled"`
}

type GetUnpaidSummaryResponse struct {
	// Participants are in roster order.
	Participants []UnpaidTotal `json:"participants"`
	Total        float64       `json:"total"`
	TotalDisplay string        `json:"totalDisplay"`
	FullySettled bool          `json:"fullySettled"`
}

// User is the public view of an account; it never carries the password hash.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}
