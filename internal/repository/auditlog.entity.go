package repository

import (
	"github.com/udharokhata/credit-ledger/internal/model"
)

type CreditLogEntity struct {
	ID         int64    `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	CreditID   int64    `db:"credit_id"   gorm:"column:credit_id;not null"`
	CustomerID int64    `db:"customer_id" gorm:"column:customer_id;not null"`
	OldAmount  *float64 `db:"old_amount"  gorm:"column:old_amount"`
	NewAmount  *float64 `db:"new_amount"  gorm:"column:new_amount"`
	ChangedAt  string   `db:"changed_at"  gorm:"column:changed_at"`
}

func (CreditLogEntity) TableName() string {
	return "customer_credit_logs"
}

type PaymentLogEntity struct {
	ID         int64    `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	PaymentID  int64    `db:"payment_id"  gorm:"column:payment_id;not null"`
	CustomerID int64    `db:"customer_id" gorm:"column:customer_id;not null"`
	OldAmount  *float64 `db:"old_amount"  gorm:"column:old_amount"`
	NewAmount  *float64 `db:"new_amount"  gorm:"column:new_amount"`
	ChangedAt  string   `db:"changed_at"  gorm:"column:changed_at"`
}

func (PaymentLogEntity) TableName() string {
	return "customer_payment_logs"
}

func toCreditLogModels(entities []*CreditLogEntity) []*model.CreditLog {
	models := make([]*model.CreditLog, len(entities))
	for i, e := range entities {
		models[i] = &model.CreditLog{
			ID:         e.ID,
			CreditID:   e.CreditID,
			CustomerID: e.CustomerID,
			OldAmount:  e.OldAmount,
			NewAmount:  e.NewAmount,
			ChangedAt:  e.ChangedAt,
		}
	}
	return models
}

func toPaymentLogModels(entities []*PaymentLogEntity) []*model.PaymentLog {
	models := make([]*model.PaymentLog, len(entities))
	for i, e := range entities {
		models[i] = &model.PaymentLog{
			ID:         e.ID,
			PaymentID:  e.PaymentID,
			CustomerID: e.CustomerID,
			OldAmount:  e.OldAmount,
			NewAmount:  e.NewAmount,
			ChangedAt:  e.ChangedAt,
		}
	}
	return models
}
