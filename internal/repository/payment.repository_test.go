package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/udharokhata/credit-ledger/internal/model"
	"github.com/udharokhata/credit-ledger/pkg/nepali"
)

func TestPaymentRepository_InsertDefaults(t *testing.T) {
	db := setupTestDB(t)
	customers := NewCustomerRepository(db)
	payments := NewPaymentRepository(db)
	ctx := context.Background()

	customerID := seedCustomer(t, customers, "Sita")

	id, err := payments.Insert(ctx, model.PaymentCreateRequest{CustomerID: customerID, Amount: 200})
	require.NoError(t, err)

	got, err := payments.GetByID(ctx, id)
	require.NoError(t, err)
	today := time.Now().In(nepali.Kathmandu).Format("2006-01-02")
	assert.Equal(t, today, got.Date)
	assert.False(t, got.IsVerified)
	assert.Nil(t, got.VerifiedAt)
	assert.Nil(t, got.AttachmentURI)
}

func TestPaymentRepository_InsertWithAttachment(t *testing.T) {
	db := setupTestDB(t)
	customers := NewCustomerRepository(db)
	payments := NewPaymentRepository(db)
	ctx := context.Background()

	customerID := seedCustomer(t, customers, "Sita")

	id, err := payments.Insert(ctx, model.PaymentCreateRequest{
		CustomerID:     customerID,
		Amount:         150,
		Note:           strPtr("receipt attached"),
		AttachmentURI:  strPtr("receipts/2026/r-42.jpg"),
		AttachmentName: strPtr("r-42.jpg"),
		AttachmentMime: strPtr("image/jpeg"),
	})
	require.NoError(t, err)

	got, err := payments.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.AttachmentURI)
	assert.Equal(t, "receipts/2026/r-42.jpg", *got.AttachmentURI)
	require.NotNil(t, got.AttachmentMime)
	assert.Equal(t, "image/jpeg", *got.AttachmentMime)
}

// Marking a payment verified must not disturb amount, date or attachment,
// but an update without a note still clears the note.
func TestPaymentRepository_UpdateVerification(t *testing.T) {
	db := setupTestDB(t)
	customers := NewCustomerRepository(db)
	payments := NewPaymentRepository(db)
	ctx := context.Background()

	customerID := seedCustomer(t, customers, "Sita")
	id, err := payments.Insert(ctx, model.PaymentCreateRequest{
		CustomerID: customerID, Amount: 200, Date: strPtr("2026-03-01"), Note: strPtr("cash"),
	})
	require.NoError(t, err)

	verified := true
	require.NoError(t, payments.Update(ctx, id, model.PaymentUpdateRequest{
		IsVerified: &verified,
		VerifiedAt: strPtr("2026-03-02 10:00:00"),
	}))

	got, err := payments.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	require.NotNil(t, got.VerifiedAt)
	assert.Equal(t, "2026-03-02 10:00:00", *got.VerifiedAt)
	assert.Equal(t, 200.0, got.Amount)
	assert.Equal(t, "2026-03-01", got.Date)
	assert.Nil(t, got.Note)
}

func TestPaymentRepository_AmountChangeLogging(t *testing.T) {
	db := setupTestDB(t)
	customers := NewCustomerRepository(db)
	payments := NewPaymentRepository(db)
	ctx := context.Background()

	customerID := seedCustomer(t, customers, "Sita")
	id, err := payments.Insert(ctx, model.PaymentCreateRequest{CustomerID: customerID, Amount: 200})
	require.NoError(t, err)

	require.NoError(t, payments.Update(ctx, id, model.PaymentUpdateRequest{Amount: floatPtr(250)}))

	logs, err := payments.Logs(ctx, id)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 200.0, *logs[0].OldAmount)
	assert.Equal(t, 250.0, *logs[0].NewAmount)

	// Unchanged amount and note-only updates stay silent.
	require.NoError(t, payments.Update(ctx, id, model.PaymentUpdateRequest{Amount: floatPtr(250)}))
	require.NoError(t, payments.Update(ctx, id, model.PaymentUpdateRequest{Note: strPtr("corrected")}))

	logs, err = payments.Logs(ctx, id)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestPaymentRepository_DeleteKeepsLogs(t *testing.T) {
	db := setupTestDB(t)
	customers := NewCustomerRepository(db)
	payments := NewPaymentRepository(db)
	ctx := context.Background()

	customerID := seedCustomer(t, customers, "Sita")
	id, err := payments.Insert(ctx, model.PaymentCreateRequest{CustomerID: customerID, Amount: 200})
	require.NoError(t, err)
	require.NoError(t, payments.Update(ctx, id, model.PaymentUpdateRequest{Amount: floatPtr(180)}))

	require.NoError(t, payments.Delete(ctx, id))

	_, err = payments.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	logs, err := payments.Logs(ctx, id)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestPaymentRepository_PageWithCustomer(t *testing.T) {
	db := setupTestDB(t)
	customers := NewCustomerRepository(db)
	payments := NewPaymentRepository(db)
	ctx := context.Background()

	ramID, err := customers.Insert(ctx, model.CustomerCreateRequest{Name: "Ram", Mobile: strPtr("9811111111")})
	require.NoError(t, err)
	_, err = payments.Insert(ctx, model.PaymentCreateRequest{CustomerID: ramID, Amount: 75})
	require.NoError(t, err)

	page, err := payments.PageWithCustomer(ctx, model.PageFilter{Query: "981", Limit: 10})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Ram", page[0].CustomerName)
	assert.Equal(t, 75.0, page[0].Amount)
}

func TestPaymentRepository_SumByDateRange(t *testing.T) {
	db := setupTestDB(t)
	customers := NewCustomerRepository(db)
	payments := NewPaymentRepository(db)
	ctx := context.Background()

	customerID := seedCustomer(t, customers, "Sita")
	for _, p := range []struct {
		amount float64
		date   string
	}{
		{50, "2026-01-05"},
		{60, "2026-01-25"},
		{70, "2026-02-10"},
	} {
		_, err := payments.Insert(ctx, model.PaymentCreateRequest{
			CustomerID: customerID, Amount: p.amount, Date: strPtr(p.date),
		})
		require.NoError(t, err)
	}

	sum, err := payments.SumByDateRange(ctx, "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, 110.0, sum)

	list, err := payments.ListByDateRange(ctx, "2026-02-01", "2026-02-28")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 70.0, list[0].Amount)
}
