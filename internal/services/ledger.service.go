// Package services holds the business layer between the HTTP handlers and
// the repositories: request validation, existence checks, error mapping and
// store metrics live here, storage details stay below.
package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/udharokhata/credit-ledger/internal/model"
	"github.com/udharokhata/credit-ledger/internal/repository"
	"github.com/udharokhata/credit-ledger/pkg/prom"
)

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// CustomerStore is the slice of the customer repository this service needs.
type CustomerStore interface {
	GetAll(ctx context.Context) ([]*model.Customer, error)
	PageWithBalance(ctx context.Context, f model.PageFilter) ([]*model.CustomerWithBalance, error)
	Count(ctx context.Context, query string) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	Insert(ctx context.Context, req model.CustomerCreateRequest) (int64, error)
	Update(ctx context.Context, id int64, req model.CustomerUpdateRequest) error
	Delete(ctx context.Context, id int64) error
	Balance(ctx context.Context, customerID int64) (float64, error)
	TotalCredits(ctx context.Context, customerID int64) (float64, error)
	TotalPayments(ctx context.Context, customerID int64) (float64, error)
}

type CreditStore interface {
	ListForCustomer(ctx context.Context, customerID int64) ([]*model.Credit, error)
	PageWithCustomer(ctx context.Context, f model.PageFilter) ([]*model.CreditWithCustomer, error)
	Count(ctx context.Context, query string) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Credit, error)
	Insert(ctx context.Context, req model.CreditCreateRequest) (int64, error)
	Update(ctx context.Context, id int64, req model.CreditUpdateRequest) error
	Delete(ctx context.Context, id int64) error
	Logs(ctx context.Context, creditID int64) ([]*model.CreditLog, error)
}

type PaymentStore interface {
	ListForCustomer(ctx context.Context, customerID int64) ([]*model.Payment, error)
	PageWithCustomer(ctx context.Context, f model.PageFilter) ([]*model.PaymentWithCustomer, error)
	Count(ctx context.Context, query string) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Payment, error)
	Insert(ctx context.Context, req model.PaymentCreateRequest) (int64, error)
	Update(ctx context.Context, id int64, req model.PaymentUpdateRequest) error
	Delete(ctx context.Context, id int64) error
	Logs(ctx context.Context, paymentID int64) ([]*model.PaymentLog, error)
}

// CustomerSummary is the per-customer detail screen payload: the customer,
// their full transaction history and the derived totals.
type CustomerSummary struct {
	Customer      *model.Customer  `json:"customer"`
	Credits       []*model.Credit  `json:"credits"`
	Payments      []*model.Payment `json:"payments"`
	TotalCredits  float64          `json:"total_credits"`
	TotalPayments float64          `json:"total_payments"`
	Balance       float64          `json:"balance"`
}

type LedgerService struct {
	customers CustomerStore
	credits   CreditStore
	payments  PaymentStore
}

func NewLedgerService(customers CustomerStore, credits CreditStore, payments PaymentStore) *LedgerService {
	return &LedgerService{customers: customers, credits: credits, payments: payments}
}

func (s *LedgerService) ListCustomers(ctx context.Context, f model.PageFilter) ([]*model.CustomerWithBalance, int64, error) {
	page, err := s.customers.PageWithBalance(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customers.Count(ctx, f.Query)
	if err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

func (s *LedgerService) AllCustomers(ctx context.Context) ([]*model.Customer, error) {
	return s.customers.GetAll(ctx)
}

func (s *LedgerService) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	return customer, err
}

// CustomerSummary loads the customer with their whole history and totals.
func (s *LedgerService) CustomerSummary(ctx context.Context, id int64) (*CustomerSummary, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	credits, err := s.credits.ListForCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListForCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	totalCredits, err := s.customers.TotalCredits(ctx, id)
	if err != nil {
		return nil, err
	}
	totalPayments, err := s.customers.TotalPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CustomerSummary{
		Customer:      customer,
		Credits:       credits,
		Payments:      payments,
		TotalCredits:  totalCredits,
		TotalPayments: totalPayments,
		Balance:       totalCredits - totalPayments,
	}, nil
}

func (s *LedgerService) CreateCustomer(ctx context.Context, req model.CustomerCreateRequest) (_ *model.Customer, err error) {
	defer func(start time.Time) { prom.ObserveStoreOp("customer_create", start, err) }(time.Now())

	if err = req.Validate(); err != nil {
		return nil, err
	}
	id, err := s.customers.Insert(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.customers.GetByID(ctx, id)
}

func (s *LedgerService) UpdateCustomer(ctx context.Context, id int64, req model.CustomerUpdateRequest) (_ *model.Customer, err error) {
	defer func(start time.Time) { prom.ObserveStoreOp("customer_update", start, err) }(time.Now())

	if err = req.Validate(); err != nil {
		return nil, err
	}
	if err = s.customers.Update(ctx, id, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return s.customers.GetByID(ctx, id)
}

func (s *LedgerService) DeleteCustomer(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { prom.ObserveStoreOp("customer_delete", start, err) }(time.Now())

	if _, err = s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.customers.Delete(ctx, id)
}

func (s *LedgerService) ListCredits(ctx context.Context, f model.PageFilter) ([]*model.CreditWithCustomer, int64, error) {
	page, err := s.credits.PageWithCustomer(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.credits.Count(ctx, f.Query)
	if err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

// CreateCredit validates the request and verifies the customer exists before
// touching the credits table; a dangling customer_id never gets in through
// this path.
func (s *LedgerService) CreateCredit(ctx context.Context, req model.CreditCreateRequest) (_ *model.Credit, err error) {
	defer func(start time.Time) { prom.ObserveStoreOp("credit_create", start, err) }(time.Now())

	if err = req.Validate(); err != nil {
		return nil, err
	}
	if _, err = s.GetCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	id, err := s.credits.Insert(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.credits.GetByID(ctx, id)
}

func (s *LedgerService) UpdateCredit(ctx context.Context, id int64, req model.CreditUpdateRequest) (_ *model.Credit, err error) {
	defer func(start time.Time) { prom.ObserveStoreOp("credit_update", start, err) }(time.Now())

	if err = req.Validate(); err != nil {
		return nil, err
	}
	if err = s.credits.Update(ctx, id, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return s.credits.GetByID(ctx, id)
}

func (s *LedgerService) DeleteCredit(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { prom.ObserveStoreOp("credit_delete", start, err) }(time.Now())

	if _, err = s.credits.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}
	return s.credits.Delete(ctx, id)
}

func (s *LedgerService) CreditLogs(ctx context.Context, creditID int64) ([]*model.CreditLog, error) {
	return s.credits.Logs(ctx, creditID)
}

func (s *LedgerService) ListPayments(ctx context.Context, f model.PageFilter) ([]*model.PaymentWithCustomer, int64, error) {
	page, err := s.payments.PageWithCustomer(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.payments.Count(ctx, f.Query)
	if err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

func (s *LedgerService) CreatePayment(ctx context.Context, req model.PaymentCreateRequest) (_ *model.Payment, err error) {
	defer func(start time.Time) { prom.ObserveStoreOp("payment_create", start, err) }(time.Now())

	if err = req.Validate(); err != nil {
		return nil, err
	}
	if _, err = s.GetCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	id, err := s.payments.Insert(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.payments.GetByID(ctx, id)
}

func (s *LedgerService) UpdatePayment(ctx context.Context, id int64, req model.PaymentUpdateRequest) (_ *model.Payment, err error) {
	defer func(start time.Time) { prom.ObserveStoreOp("payment_update", start, err) }(time.Now())

	if err = req.Validate(); err != nil {
		return nil, err
	}
	if err = s.payments.Update(ctx, id, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return s.payments.GetByID(ctx, id)
}

func (s *LedgerService) DeletePayment(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { prom.ObserveStoreOp("payment_delete", start, err) }(time.Now())

	if _, err = s.payments.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}
	return s.payments.Delete(ctx, id)
}

func (s *LedgerService) PaymentLogs(ctx context.Context, paymentID int64) ([]*model.PaymentLog, error) {
	return s.payments.Logs(ctx, paymentID)
}
