package repository

import (
	"github.com/udharokhata/credit-ledger/internal/model"
)

type PaymentEntity struct {
	ID             int64   `db:"id"              gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID     int64   `db:"customer_id"     gorm:"column:customer_id;not null"`
	Amount         float64 `db:"amount"          gorm:"column:amount;not null"`
	Note           *string `db:"note"            gorm:"column:note"`
	IsVerified     bool    `db:"is_verified"     gorm:"column:is_verified;not null;default:0"`
	VerifiedAt     *string `db:"verified_at"     gorm:"column:verified_at"`
	AttachmentURI  *string `db:"attachment_uri"  gorm:"column:attachment_uri"`
	AttachmentName *string `db:"attachment_name" gorm:"column:attachment_name"`
	AttachmentMime *string `db:"attachment_mime" gorm:"column:attachment_mime"`
	Date           string  `db:"date"            gorm:"column:date;not null"`
	CreatedAt      string  `db:"created_at"      gorm:"column:created_at"`
}

func (PaymentEntity) TableName() string {
	return "customer_payments"
}

func toPaymentModel(e *PaymentEntity) *model.Payment {
	if e == nil {
		return nil
	}
	return &model.Payment{
		ID:             e.ID,
		CustomerID:     e.CustomerID,
		Amount:         e.Amount,
		Note:           e.Note,
		IsVerified:     e.IsVerified,
		VerifiedAt:     e.VerifiedAt,
		AttachmentURI:  e.AttachmentURI,
		AttachmentName: e.AttachmentName,
		AttachmentMime: e.AttachmentMime,
		Date:           e.Date,
		CreatedAt:      e.CreatedAt,
	}
}

func toPaymentModels(entities []*PaymentEntity) []*model.Payment {
	models := make([]*model.Payment, len(entities))
	for i, e := range entities {
		models[i] = toPaymentModel(e)
	}
	return models
}

type paymentWithCustomerRow struct {
	PaymentEntity
	CustomerName   string  `gorm:"column:customer_name"`
	CustomerMobile *string `gorm:"column:customer_mobile"`
}

func toPaymentWithCustomer(r *paymentWithCustomerRow) *model.PaymentWithCustomer {
	return &model.PaymentWithCustomer{
		Payment:        *toPaymentModel(&r.PaymentEntity),
		CustomerName:   r.CustomerName,
		CustomerMobile: r.CustomerMobile,
	}
}
