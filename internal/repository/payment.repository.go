package repository

import (
	"context"
	"errors"

	"github.com/udharokhata/credit-ledger/internal/model"
	"github.com/udharokhata/credit-ledger/pkg/sqlite"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *sqlite.DB
}

func NewPaymentRepository(db *sqlite.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) ListForCustomer(ctx context.Context, customerID int64) ([]*model.Payment, error) {
	var entities []*PaymentEntity
	err := r.db.Conn(ctx).
		Where("customer_id = ?", customerID).
		Order("date DESC, created_at DESC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toPaymentModels(entities), nil
}

func (r *PaymentRepository) PageWithCustomer(ctx context.Context, f model.PageFilter) ([]*model.PaymentWithCustomer, error) {
	limit, offset := clampPage(f)

	sql := `SELECT
	  p.id, p.customer_id, p.amount, p.note, p.is_verified, p.verified_at,
	  p.attachment_uri, p.attachment_name, p.attachment_mime, p.date, p.created_at,
	  cu.name AS customer_name, cu.mobile AS customer_mobile
	FROM customer_payments p
	JOIN customers cu ON cu.id = p.customer_id`
	args := []any{}
	if like, ok := likePattern(f.Query); ok {
		sql += ` WHERE lower(cu.name) LIKE ? OR lower(cu.mobile) LIKE ?`
		args = append(args, like, like)
	}
	sql += ` ORDER BY p.date DESC, p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var rows []*paymentWithCustomerRow
	if err := r.db.Conn(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*model.PaymentWithCustomer, len(rows))
	for i, row := range rows {
		out[i] = toPaymentWithCustomer(row)
	}
	return out, nil
}

func (r *PaymentRepository) Count(ctx context.Context, query string) (int64, error) {
	sql := `SELECT COUNT(*) FROM customer_payments p JOIN customers cu ON cu.id = p.customer_id`
	args := []any{}
	if like, ok := likePattern(query); ok {
		sql += ` WHERE lower(cu.name) LIKE ? OR lower(cu.mobile) LIKE ?`
		args = append(args, like, like)
	}
	var total int64
	err := r.db.Conn(ctx).Raw(sql, args...).Scan(&total).Error
	return total, err
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	var entity PaymentEntity
	err := r.db.Conn(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toPaymentModel(&entity), nil
}

func (r *PaymentRepository) Insert(ctx context.Context, req model.PaymentCreateRequest) (int64, error) {
	date := todayAD()
	if req.Date != nil && *req.Date != "" {
		date = *req.Date
	}
	entity := &PaymentEntity{
		CustomerID:     req.CustomerID,
		Amount:         req.Amount,
		Note:           req.Note,
		AttachmentURI:  req.AttachmentURI,
		AttachmentName: req.AttachmentName,
		AttachmentMime: req.AttachmentMime,
		Date:           date,
		CreatedAt:      nowTimestamp(),
	}
	if err := r.db.Conn(ctx).Create(entity).Error; err != nil {
		return 0, err
	}
	return entity.ID, nil
}

// Update mirrors the credit rules: coalesce everything except note, and log
// the amount change inside the same transaction when it actually changed.
func (r *PaymentRepository) Update(ctx context.Context, id int64, req model.PaymentUpdateRequest) error {
	return r.db.WithinTransaction(ctx, func(ctx context.Context) error {
		conn := r.db.Conn(ctx)

		var old PaymentEntity
		if err := conn.Where("id = ?", id).First(&old).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		err := conn.Exec(
			`UPDATE customer_payments
			 SET amount = COALESCE(?, amount),
			     note = ?,
			     date = COALESCE(?, date),
			     is_verified = COALESCE(?, is_verified),
			     verified_at = COALESCE(?, verified_at),
			     attachment_uri = COALESCE(?, attachment_uri),
			     attachment_name = COALESCE(?, attachment_name),
			     attachment_mime = COALESCE(?, attachment_mime)
			 WHERE id = ?`,
			req.Amount, req.Note, req.Date, req.IsVerified, req.VerifiedAt,
			req.AttachmentURI, req.AttachmentName, req.AttachmentMime, id,
		).Error
		if err != nil {
			return err
		}

		if req.Amount != nil && *req.Amount != old.Amount {
			oldAmount := old.Amount
			log := &PaymentLogEntity{
				PaymentID:  old.ID,
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

func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.Conn(ctx).Exec(`DELETE FROM customer_payments WHERE id = ?`, id).Error
}

func (r *PaymentRepository) Logs(ctx context.Context, paymentID int64) ([]*model.PaymentLog, error) {
	var entities []*PaymentLogEntity
	err := r.db.Conn(ctx).
		Where("payment_id = ?", paymentID).
		Order("changed_at DESC, id DESC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toPaymentLogModels(entities), nil
}

func (r *PaymentRepository) SumByDateRange(ctx context.Context, startAD, endAD string) (float64, error) {
	var total float64
	err := r.db.Conn(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) FROM customer_payments WHERE date >= ? AND date <= ?`,
		startAD, endAD,
	).Scan(&total).Error
	return total, err
}

func (r *PaymentRepository) ListByDateRange(ctx context.Context, startAD, endAD string) ([]*model.Payment, error) {
	var entities []*PaymentEntity
	err := r.db.Conn(ctx).
		Where("date >= ? AND date <= ?", startAD, endAD).
		Order("date DESC, created_at DESC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toPaymentModels(entities), nil
}
