package enum

// PaymentStatus describes how far a payment brought the account's balance,
// decided at recording time and never revisited.
type PaymentStatus string

const (
	PaymentPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentPaidInFull    PaymentStatus = "PAID_IN_FULL"
)

// String returns the string representation of the payment status
func (s PaymentStatus) String() string {
	return string(s)
}

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	return s == PaymentPartiallyPaid || s == PaymentPaidInFull
}
