package model

// Payment is money a customer paid back; it decreases the outstanding
// balance. A payment can carry a verification flag and a receipt attachment
// reference (the file itself lives with the cloud-backup collaborator).
type Payment struct {
	ID             int64   `json:"id"`
	CustomerID     int64   `json:"customer_id"`
	Amount         float64 `json:"amount"`
	Note           *string `json:"note"`
	IsVerified     bool    `json:"is_verified"`
	VerifiedAt     *string `json:"verified_at"`
	AttachmentURI  *string `json:"attachment_uri"`
	AttachmentName *string `json:"attachment_name"`
	AttachmentMime *string `json:"attachment_mime"`
	Date           string  `json:"date"`
	CreatedAt      string  `json:"created_at"`
}

type PaymentWithCustomer struct {
	Payment
	CustomerName   string  `json:"customer_name"`
	CustomerMobile *string `json:"customer_mobile"`
}

type PaymentCreateRequest struct {
	CustomerID     int64   `json:"customer_id"`
	Amount         float64 `json:"amount"`
	Note           *string `json:"note"`
	AttachmentURI  *string `json:"attachment_uri"`
	AttachmentName *string `json:"attachment_name"`
	AttachmentMime *string `json:"attachment_mime"`
	Date           *string `json:"date"`
}

func (r PaymentCreateRequest) Validate() error {
	if r.CustomerID == 0 {
		return ErrCustomerRequired
	}
	if r.Amount <= 0 {
		return ErrAmountNotPositive
	}
	return nil
}

// PaymentUpdateRequest follows the same coalesce rules as credits: every
// field keeps its old value when nil except note, which is overwritten.
type PaymentUpdateRequest struct {
	Amount         *float64 `json:"amount"`
	Note           *string  `json:"note"`
	Date           *string  `json:"date"`
	IsVerified     *bool    `json:"is_verified"`
	VerifiedAt     *string  `json:"verified_at"`
	AttachmentURI  *string  `json:"attachment_uri"`
	AttachmentName *string  `json:"attachment_name"`
	AttachmentMime *string  `json:"attachment_mime"`
}

func (r PaymentUpdateRequest) Validate() error {
	if r.Amount != nil && *r.Amount <= 0 {
		return ErrAmountNotPositive
	}
	return nil
}
