package repository

import (
	"github.com/udharokhata/credit-ledger/internal/model"
)

type CustomerEntity struct {
	ID        int64   `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Name      string  `db:"name"       gorm:"column:name;not null"`
	Mobile    *string `db:"mobile"     gorm:"column:mobile"`
	Address   *string `db:"address"    gorm:"column:address"`
	Note      *string `db:"note"       gorm:"column:note"`
	CreatedAt string  `db:"created_at" gorm:"column:created_at"`
}

func (CustomerEntity) TableName() string {
	return "customers"
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:        e.ID,
		Name:      e.Name,
		Mobile:    e.Mobile,
		Address:   e.Address,
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
	}
}

func toCustomerModels(entities []*CustomerEntity) []*model.Customer {
	models := make([]*model.Customer, len(entities))
	for i, e := range entities {
		models[i] = toCustomerModel(e)
	}
	return models
}

// customerBalanceRow is the scan target for the aggregate list query.
type customerBalanceRow struct {
	ID                  int64   `gorm:"column:id"`
	Name                string  `gorm:"column:name"`
	Mobile              *string `gorm:"column:mobile"`
	Address             *string `gorm:"column:address"`
	Note                *string `gorm:"column:note"`
	CreatedAt           string  `gorm:"column:created_at"`
	Balance             float64 `gorm:"column:balance"`
	LastTransactionDate *string `gorm:"column:last_transaction_date"`
	TransactionCount    int64   `gorm:"column:transaction_count"`
}

func toCustomerWithBalance(r *customerBalanceRow) *model.CustomerWithBalance {
	return &model.CustomerWithBalance{
		Customer: model.Customer{
			ID:        r.ID,
			Name:      r.Name,
			Mobile:    r.Mobile,
			Address:   r.Address,
			Note:      r.Note,
			CreatedAt: r.CreatedAt,
		},
		Balance:             r.Balance,
		LastTransactionDate: r.LastTransactionDate,
		TransactionCount:    r.TransactionCount,
	}
}
