package repository

import (
	"github.com/udharokhata/credit-ledger/internal/model"
)

type CreditEntity struct {
	ID                  int64   `db:"id"                    gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID          int64   `db:"customer_id"           gorm:"column:customer_id;not null"`
	Amount              float64 `db:"amount"                gorm:"column:amount;not null"`
	Note                *string `db:"note"                  gorm:"column:note"`
	ExpectedPaymentDate *string `db:"expected_payment_date" gorm:"column:expected_payment_date"`
	Date                string  `db:"date"                  gorm:"column:date;not null"`
	CreatedAt           string  `db:"created_at"            gorm:"column:created_at"`
}

func (CreditEntity) TableName() string {
	return "customer_credits"
}

func toCreditModel(e *CreditEntity) *model.Credit {
	if e == nil {
		return nil
	}
	return &model.Credit{
		ID:                  e.ID,
		CustomerID:          e.CustomerID,
		Amount:              e.Amount,
		Note:                e.Note,
		ExpectedPaymentDate: e.ExpectedPaymentDate,
		Date:                e.Date,
		CreatedAt:           e.CreatedAt,
	}
}

func toCreditModels(entities []*CreditEntity) []*model.Credit {
	models := make([]*model.Credit, len(entities))
	for i, e := range entities {
		models[i] = toCreditModel(e)
	}
	return models
}

// creditWithCustomerRow backs the joined list query.
type creditWithCustomerRow struct {
	CreditEntity
	CustomerName   string  `gorm:"column:customer_name"`
	CustomerMobile *string `gorm:"column:customer_mobile"`
}

func toCreditWithCustomer(r *creditWithCustomerRow) *model.CreditWithCustomer {
	return &model.CreditWithCustomer{
		Credit:         *toCreditModel(&r.CreditEntity),
		CustomerName:   r.CustomerName,
		CustomerMobile: r.CustomerMobile,
	}
}
