package models

type DepositStatus string

const (
	DepositPending   DepositStatus = "pending"
	DepositConfirmed DepositStatus = "confirmed"
	DepositRejected  DepositStatus = "rejected"
)

func (s DepositStatus) Valid() bool {
	switch s {
	case DepositPending, DepositConfirmed, DepositRejected:
		return true
	}
	return false
}

func (s DepositStatus) IsTerminal() bool {
	switch s {
	case DepositConfirmed, DepositRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a deposit may move from s to next.
// Only pending deposits move, and only to a terminal status.
func (s DepositStatus) CanTransitionTo(next DepositStatus) bool {
	switch s {
	case DepositPending:
		return next == DepositConfirmed || next == DepositRejected
	case DepositConfirmed, DepositRejected:
		return false
	}
	return false
}

type PaymentRequestStatus string

const (
	PaymentSubmitted  PaymentRequestStatus = "submitted"
	PaymentProcessing PaymentRequestStatus = "processing"
	PaymentPaid       PaymentRequestStatus = "paid"
	PaymentRejected   PaymentRequestStatus = "rejected"
	PaymentCancelled  PaymentRequestStatus = "cancelled"
)

func (s PaymentRequestStatus) Valid() bool {
	switch s {
	case PaymentSubmitted, PaymentProcessing, PaymentPaid, PaymentRejected, PaymentCancelled:
		return true
	}
	return false
}

func (s PaymentRequestStatus) IsTerminal() bool {
	switch s {
	case PaymentPaid, PaymentRejected, PaymentCancelled:
		return true
	}
	return false
}

// CanTransitionTo implements submitted -> processing -> paid|rejected|cancelled.
// A submitted request may also be rejected or cancelled before processing starts.
func (s PaymentRequestStatus) CanTransitionTo(next PaymentRequestStatus) bool {
	switch s {
	case PaymentSubmitted:
		switch next {
		case PaymentProcessing, PaymentRejected, PaymentCancelled:
			return true
		}
		return false
	case PaymentProcessing:
		switch next {
		case PaymentPaid, PaymentRejected, PaymentCancelled:
			return true
		}
		return false
	case PaymentPaid, PaymentRejected, PaymentCancelled:
		return false
	}
	return false
}

// IsActive is true for statuses shown in the "active" history tab.
func (s PaymentRequestStatus) IsActive() bool {
	return s == PaymentSubmitted || s == PaymentProcessing
}

type Urgency string

const (
	UrgencyStandard Urgency = "standard"
	UrgencyUrgent   Urgency = "urgent"
)

func (u Urgency) Valid() bool {
	return u == UrgencyStandard || u == UrgencyUrgent
}
