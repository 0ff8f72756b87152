package repository

import (
	"context"
	"errors"

	"github.com/udharokhata/credit-ledger/internal/model"
	"github.com/udharokhata/credit-ledger/pkg/sqlite"
	"gorm.io/gorm"
)

type CreditRepository struct {
	db *sqlite.DB
}

func NewCreditRepository(db *sqlite.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

func (r *CreditRepository) ListForCustomer(ctx context.Context, customerID int64) ([]*model.Credit, error) {
	var entities []*CreditEntity
	err := r.db.Conn(ctx).
		Where("customer_id = ?", customerID).
		Order("date DESC, created_at DESC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toCreditModels(entities), nil
}

// PageWithCustomer lists credits joined with the owning customer. The search
// query matches the customer's name or mobile, not the credit's own fields.
func (r *CreditRepository) PageWithCustomer(ctx context.Context, f model.PageFilter) ([]*model.CreditWithCustomer, error) {
	limit, offset := clampPage(f)

	sql := `SELECT
	  c.id, c.customer_id, c.amount, c.note, c.expected_payment_date, c.date, c.created_at,
	  cu.name AS customer_name, cu.mobile AS customer_mobile
	FROM customer_credits c
	JOIN customers cu ON cu.id = c.customer_id`
	args := []any{}
	if like, ok := likePattern(f.Query); ok {
		sql += ` WHERE lower(cu.name) LIKE ? OR lower(cu.mobile) LIKE ?`
		args = append(args, like, like)
	}
	sql += ` ORDER BY c.date DESC, c.created_at DESC, c.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var rows []*creditWithCustomerRow
	if err := r.db.Conn(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*model.CreditWithCustomer, len(rows))
	for i, row := range rows {
		out[i] = toCreditWithCustomer(row)
	}
	return out, nil
}

func (r *CreditRepository) Count(ctx context.Context, query string) (int64, error) {
	sql := `SELECT COUNT(*) FROM customer_credits c JOIN customers cu ON cu.id = c.customer_id`
	args := []any{}
	if like, ok := likePattern(query); ok {
		sql += ` WHERE lower(cu.name) LIKE ? OR lower(cu.mobile) LIKE ?`
		args = append(args, like, like)
	}
	var total int64
	err := r.db.Conn(ctx).Raw(sql, args...).Scan(&total).Error
	return total, err
}

func (r *CreditRepository) GetByID(ctx context.Context, id int64) (*model.Credit, error) {
	var entity CreditEntity
	err := r.db.Conn(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toCreditModel(&entity), nil
}

func (r *CreditRepository) Insert(ctx context.Context, req model.CreditCreateRequest) (int64, error) {
	date := todayAD()
	if req.Date != nil && *req.Date != "" {
		date = *req.Date
	}
	entity := &CreditEntity{
		CustomerID:          req.CustomerID,
		Amount:              req.Amount,
		Note:                req.Note,
		ExpectedPaymentDate: req.ExpectedPaymentDate,
		Date:                date,
		CreatedAt:           nowTimestamp(),
	}
	if err := r.db.Conn(ctx).Create(entity).Error; err != nil {
		return 0, err
	}
	return entity.ID, nil
}

// Update applies a partial update and records the amount change, in one
// transaction. amount/date/expected_payment_date coalesce to their old
// values when nil; note is always overwritten. A log row is written exactly
// when the update carried an amount different from the stored one.
func (r *CreditRepository) Update(ctx context.Context, id int64, req model.CreditUpdateRequest) error {
	return r.db.WithinTransaction(ctx, func(ctx context.Context) error {
		conn := r.db.Conn(ctx)

		var old CreditEntity
		if err := conn.Where("id = ?", id).First(&old).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		err := conn.Exec(
			`UPDATE customer_credits
			 SET amount = COALESCE(?, amount),
			     note = ?,
			     date = COALESCE(?, date),
			     expected_payment_date = COALESCE(?, expected_payment_date)
			 WHERE id = ?`,
			req.Amount, req.Note, req.Date, req.ExpectedPaymentDate, id,
		).Error
		if err != nil {
			return err
		}

		if req.Amount != nil && *req.Amount != old.Amount {
			oldAmount := old.Amount
			log := &CreditLogEntity{
				CreditID:   old.ID,
				CustomerID: old.CustomerID,
				OldAmount:  &oldAmount,
				NewAmount:  req.Amount,
				ChangedAt:  nowTimestamp(),
			}
			if err := conn.Create(log).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the credit row only. Its audit logs stay: history outlives
// the row it describes.
func (r *CreditRepository) Delete(ctx context.Context, id int64) error {
	return r.db.Conn(ctx).Exec(`DELETE FROM customer_credits WHERE id = ?`, id).Error
}

func (r *CreditRepository) Logs(ctx context.Context, creditID int64) ([]*model.CreditLog, error) {
	var entities []*CreditLogEntity
	err := r.db.Conn(ctx).
		Where("credit_id = ?", creditID).
		Order("changed_at DESC, id DESC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toCreditLogModels(entities), nil
}

// SumByDateRange totals credit amounts with date in [start, end], both ends
// inclusive.
func (r *CreditRepository) SumByDateRange(ctx context.Context, startAD, endAD string) (float64, error) {
	var total float64
	err := r.db.Conn(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) FROM customer_credits WHERE date >= ? AND date <= ?`,
		startAD, endAD,
	).Scan(&total).Error
	return total, err
}

func (r *CreditRepository) ListByDateRange(ctx context.Context, startAD, endAD string) ([]*model.Credit, error) {
	var entities []*CreditEntity
	err := r.db.Conn(ctx).
		Where("date >= ? AND date <= ?", startAD, endAD).
		Order("date DESC, created_at DESC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toCreditModels(entities), nil
}
