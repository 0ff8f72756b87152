package model

import "errors"

var (
	ErrCustomerRequired  = errors.New("customer_id is required")
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
)

// Credit is money the shopkeeper extended to a customer; it increases the
// customer's outstanding balance. Date is the AD transaction date
// (YYYY-MM-DD); BS entry is converted before it reaches the store.
type Credit struct {
	ID                  int64   `json:"id"`
	CustomerID          int64   `json:"customer_id"`
	Amount              float64 `json:"amount"`
	Note                *string `json:"note"`
	ExpectedPaymentDate *string `json:"expected_payment_date"`
	Date                string  `json:"date"`
	CreatedAt           string  `json:"created_at"`
}

// CreditWithCustomer joins the owning customer for list screens; search
// matches the customer's name/mobile, not the credit's own fields.
type CreditWithCustomer struct {
	Credit
	CustomerName   string  `json:"customer_name"`
	CustomerMobile *string `json:"customer_mobile"`
}

type CreditCreateRequest struct {
	CustomerID          int64   `json:"customer_id"`
	Amount              float64 `json:"amount"`
	Note                *string `json:"note"`
	ExpectedPaymentDate *string `json:"expected_payment_date"`
	// Date defaults to today (AD, Kathmandu) when omitted.
	Date *string `json:"date"`
}

func (r CreditCreateRequest) Validate() error {
	if r.CustomerID == 0 {
		return ErrCustomerRequired
	}
	if r.Amount <= 0 {
		return ErrAmountNotPositive
	}
	return nil
}

// CreditUpdateRequest is a partial update: amount, date and
// expected_payment_date keep their old value when nil. Note does not — it is
// always overwritten with the supplied value, clearing it when nil. Callers
// that want to keep a note must resend it.
type CreditUpdateRequest struct {
	Amount              *float64 `json:"amount"`
	Note                *string  `json:"note"`
	Date                *string  `json:"date"`
	ExpectedPaymentDate *string  `json:"expected_payment_date"`
}

func (r CreditUpdateRequest) Validate() error {
	if r.Amount != nil && *r.Amount <= 0 {
		return ErrAmountNotPositive
	}
	return nil
}
