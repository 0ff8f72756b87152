package model

import (
	"errors"
	"strings"
)

const mobileLength = 10

var (
	ErrNameRequired     = errors.New("name is required")
	ErrMobileDigitsOnly = errors.New("mobile must contain digits only")
	ErrMobileLength     = errors.New("mobile must be exactly 10 digits")
)

// Customer is a shopkeeper's debtor. Optional text fields are pointers so a
// missing value survives the store boundary as NULL, not "".
type Customer struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Mobile    *string `json:"mobile"`
	Address   *string `json:"address"`
	Note      *string `json:"note"`
	CreatedAt string  `json:"created_at"`
}

// CustomerWithBalance annotates a customer with the aggregates the customer
// list screen renders. Balance is always recomputed from the ledger tables.
type CustomerWithBalance struct {
	Customer
	Balance             float64 `json:"balance"`
	LastTransactionDate *string `json:"last_transaction_date"`
	TransactionCount    int64   `json:"transaction_count"`
}

type CustomerCreateRequest struct {
	Name    string  `json:"name"`
	Mobile  *string `json:"mobile"`
	Address *string `json:"address"`
	Note    *string `json:"note"`
}

func (r CustomerCreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	return validateMobile(r.Mobile)
}

// CustomerUpdateRequest mutates name/mobile/address/note; created_at is
// immutable. Name keeps its old value when omitted, the other fields are
// overwritten with whatever is supplied.
type CustomerUpdateRequest struct {
	Name    *string `json:"name"`
	Mobile  *string `json:"mobile"`
	Address *string `json:"address"`
	Note    *string `json:"note"`
}

func (r CustomerUpdateRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return ErrNameRequired
	}
	return validateMobile(r.Mobile)
}

// validateMobile accepts an absent or empty mobile; a present one must be
// exactly 10 digits. Digits-only is checked before length so each failure
// gets its own error.
func validateMobile(mobile *string) error {
	if mobile == nil {
		return nil
	}
	m := strings.TrimSpace(*mobile)
	if m == "" {
		return nil
	}
	for _, r := range m {
		if r < '0' || r > '9' {
			return ErrMobileDigitsOnly
		}
	}
	if len(m) != mobileLength {
		return ErrMobileLength
	}
	return nil
}

// PageFilter controls paginated list queries. Query is a case-insensitive
// substring match over customer name and mobile.
type PageFilter struct {
	Query  string
	Limit  int
	Offset int
}
