package repository

import (
	"context"
	"errors"

	"github.com/udharokhata/credit-ledger/internal/model"
	"github.com/udharokhata/credit-ledger/pkg/sqlite"
	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *sqlite.DB
}

func NewCustomerRepository(db *sqlite.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// balanceSelect computes balance, last activity and transaction count per
// customer in one pass, so the list never degrades to a query per row.
// Balance is always derived from the ledger tables; there is no stored
// balance to go stale.
const balanceSelect = `
SELECT
  c.id, c.name, c.mobile, c.address, c.note, c.created_at,
  COALESCE((SELECT SUM(amount) FROM customer_credits WHERE customer_id = c.id), 0) -
  COALESCE((SELECT SUM(amount) FROM customer_payments WHERE customer_id = c.id), 0) AS balance,
  (
    SELECT MAX(d) FROM (
      SELECT MAX(date) AS d FROM customer_credits WHERE customer_id = c.id
      UNION ALL
      SELECT MAX(date) AS d FROM customer_payments WHERE customer_id = c.id
    )
  ) AS last_transaction_date,
  COALESCE((SELECT COUNT(*) FROM customer_credits WHERE customer_id = c.id), 0) +
  COALESCE((SELECT COUNT(*) FROM customer_payments WHERE customer_id = c.id), 0) AS transaction_count
FROM customers c`

// id is the final tiebreak so pages never overlap when several customers
// share a last_transaction_date and balance.
const balanceOrder = ` ORDER BY COALESCE(last_transaction_date, c.created_at) DESC, balance DESC, c.id DESC`

func (r *CustomerRepository) GetAll(ctx context.Context) ([]*model.Customer, error) {
	var entities []*CustomerEntity
	err := r.db.Conn(ctx).
		Raw(`SELECT id, name, mobile, address, note, created_at FROM customers ORDER BY name COLLATE NOCASE`).
		Scan(&entities).Error
	if err != nil {
		return nil, err
	}
	return toCustomerModels(entities), nil
}

func (r *CustomerRepository) PageWithBalance(ctx context.Context, f model.PageFilter) ([]*model.CustomerWithBalance, error) {
	limit, offset := clampPage(f)

	sql := balanceSelect
	args := []any{}
	if like, ok := likePattern(f.Query); ok {
		sql += ` WHERE lower(c.name) LIKE ? OR lower(c.mobile) LIKE ?`
		args = append(args, like, like)
	}
	sql += balanceOrder + ` LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var rows []*customerBalanceRow
	if err := r.db.Conn(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*model.CustomerWithBalance, len(rows))
	for i, row := range rows {
		out[i] = toCustomerWithBalance(row)
	}
	return out, nil
}

func (r *CustomerRepository) Count(ctx context.Context, query string) (int64, error) {
	sql := `SELECT COUNT(*) FROM customers`
	args := []any{}
	if like, ok := likePattern(query); ok {
		sql += ` WHERE lower(name) LIKE ? OR lower(mobile) LIKE ?`
		args = append(args, like, like)
	}
	var total int64
	err := r.db.Conn(ctx).Raw(sql, args...).Scan(&total).Error
	return total, err
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.db.Conn(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

func (r *CustomerRepository) Insert(ctx context.Context, req model.CustomerCreateRequest) (int64, error) {
	entity := &CustomerEntity{
		Name:      req.Name,
		Mobile:    req.Mobile,
		Address:   req.Address,
		Note:      req.Note,
		CreatedAt: nowTimestamp(),
	}
	if err := r.db.Conn(ctx).Create(entity).Error; err != nil {
		return 0, err
	}
	return entity.ID, nil
}

// Update mutates name/mobile/address/note. Name keeps its old value when
// nil; mobile/address/note are overwritten with whatever was supplied.
// created_at is never touched.
func (r *CustomerRepository) Update(ctx context.Context, id int64, req model.CustomerUpdateRequest) error {
	res := r.db.Conn(ctx).Exec(
		`UPDATE customers SET name = COALESCE(?, name), mobile = ?, address = ?, note = ? WHERE id = ?`,
		req.Name, req.Mobile, req.Address, req.Note, id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the customer's credits, then payments, then the customer
// row, in that order. Deliberately not transactional: an interruption can
// orphan rows, which the caller accepts. Audit logs are left in place.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	conn := r.db.Conn(ctx)
	if err := conn.Exec(`DELETE FROM customer_credits WHERE customer_id = ?`, id).Error; err != nil {
		return err
	}
	if err := conn.Exec(`DELETE FROM customer_payments WHERE customer_id = ?`, id).Error; err != nil {
		return err
	}
	return conn.Exec(`DELETE FROM customers WHERE id = ?`, id).Error
}

func (r *CustomerRepository) Balance(ctx context.Context, customerID int64) (float64, error) {
	var balance float64
	err := r.db.Conn(ctx).Raw(
		`SELECT
		   COALESCE((SELECT SUM(amount) FROM customer_credits WHERE customer_id = ?), 0) -
		   COALESCE((SELECT SUM(amount) FROM customer_payments WHERE customer_id = ?), 0)`,
		customerID, customerID,
	).Scan(&balance).Error
	return balance, err
}

func (r *CustomerRepository) TotalCredits(ctx context.Context, customerID int64) (float64, error) {
	var total float64
	err := r.db.Conn(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) FROM customer_credits WHERE customer_id = ?`, customerID,
	).Scan(&total).Error
	return total, err
}

func (r *CustomerRepository) TotalPayments(ctx context.Context, customerID int64) (float64, error) {
	var total float64
	err := r.db.Conn(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) FROM customer_payments WHERE customer_id = ?`, customerID,
	).Scan(&total).Error
	return total, err
}

// TotalReceivables is the outstanding balance across all customers.
func (r *CustomerRepository) TotalReceivables(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.Conn(ctx).Raw(
		`SELECT
		   COALESCE((SELECT SUM(amount) FROM customer_credits), 0) -
		   COALESCE((SELECT SUM(amount) FROM customer_payments), 0)`,
	).Scan(&total).Error
	return total, err
}
