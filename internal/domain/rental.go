package domain

type RentalStatus string

// Rentals move forward only: DRAFT -> ACTIVE -> CLOSED. A DRAFT may also be
// closed directly (administrative closure). CLOSED is terminal.
const (
	RentalStatusDraft  RentalStatus = "DRAFT"
	RentalStatusActive RentalStatus = "ACTIVE"
	RentalStatusClosed RentalStatus = "CLOSED"
)

// Rental dates are ISO calendar dates (yyyy-mm-dd), not timestamps.
// ActualReturnDate is nil unless the rental is CLOSED.
type Rental struct {
	ID                 int32        `json:"id"`
	CustomerID         int32        `json:"customer"`
	CarID              int32        `json:"car"`
	IssueDate          string       `json:"issue_date"`
	ExpectedReturnDate string       `json:"expected_return_date"`
	ActualReturnDate   *string      `json:"actual_return_date,omitempty"`
	Status             RentalStatus `json:"status"`
	CreatedOn          string       `json:"created_on,omitempty"`
	UpdatedOn          string       `json:"updated_on,omitempty"`
}

type DepositStatus string

const (
	DepositStatusHeld          DepositStatus = "HELD"
	DepositStatusRefunded      DepositStatus = "REFUNDED"
	DepositStatusPartialRefund DepositStatus = "PARTIAL_REFUND"
	DepositStatusForfeited     DepositStatus = "FORFEITED"
)

type Deposit struct {
	ID          int32         `json:"id"`
	RentalID    int32         `json:"rental_id"`
	AmountCents int64         `json:"amount_cents"`
	Status      DepositStatus `json:"status"`
}

type PenaltyType string

const (
	PenaltyTypeLateReturn   PenaltyType = "LATE_RETURN"
	PenaltyTypeBadCondition PenaltyType = "BAD_CONDITION"
)

type Penalty struct {
	ID          int32       `json:"id"`
	RentalID    int32       `json:"rental_id"`
	Type        PenaltyType `json:"type"`
	AmountCents int64       `json:"amount_cents"`
	Comment     string      `json:"comment"`
}

type TransactionType string

const (
	TransactionTypeRentalCharge  TransactionType = "RENTAL_CHARGE"
	TransactionTypeDepositHeld   TransactionType = "DEPOSIT_HELD"
	TransactionTypeDepositRefund TransactionType = "DEPOSIT_REFUND"
	TransactionTypePenaltyCharge TransactionType = "PENALTY_CHARGE"
)

type PaymentTransaction struct {
	ID          int32           `json:"id"`
	RentalID    int32           `json:"rental_id"`
	Type        TransactionType `json:"transaction_type"`
	AmountCents int64           `json:"amount_cents"`
	Note        string          `json:"note"`
	CreatedOn   string          `json:"created_on,omitempty"`
}
