package model

// CreditLog is one immutable audit record of an amount change on a credit.
// A log row exists if and only if an update changed the amount to a
// different value. Logs outlive the row they audit: deleting a credit keeps
// its history.
type CreditLog struct {
	ID         int64    `json:"id"`
	CreditID   int64    `json:"credit_id"`
	CustomerID int64    `json:"customer_id"`
	OldAmount  *float64 `json:"old_amount"`
	NewAmount  *float64 `json:"new_amount"`
	ChangedAt  string   `json:"changed_at"`
}

// PaymentLog mirrors CreditLog for payments.
type PaymentLog struct {
	ID         int64    `json:"id"`
	PaymentID  int64    `json:"payment_id"`
	CustomerID int64    `json:"customer_id"`
	OldAmount  *float64 `json:"old_amount"`
	NewAmount  *float64 `json:"new_amount"`
	ChangedAt  string   `json:"changed_at"`
}
