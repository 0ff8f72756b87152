package services

import (
	"context"
	"time"

	"github.com/udharokhata/credit-ledger/internal/model"
	"github.com/udharokhata/credit-ledger/pkg/nepali"
)

// RangeSummer aggregates one ledger table over an inclusive AD date range.
type RangeSummer interface {
	SumByDateRange(ctx context.Context, startAD, endAD string) (float64, error)
	ListByDateRange(ctx context.Context, startAD, endAD string) ([]*model.Credit, error)
}

type PaymentRangeSummer interface {
	SumByDateRange(ctx context.Context, startAD, endAD string) (float64, error)
	ListByDateRange(ctx context.Context, startAD, endAD string) ([]*model.Payment, error)
}

type ReceivablesStore interface {
	TotalReceivables(ctx context.Context) (float64, error)
}

// PeriodReport is the dashboard payload for one BS reporting period.
type PeriodReport struct {
	Period  string             `json:"period"`
	Range   nepali.DateRange   `json:"range"`
	RangeBS nepali.DateRange   `json:"range_bs"`
	Totals  model.ReportTotals `json:"totals"`
}

type ReportService struct {
	credits     RangeSummer
	payments    PaymentRangeSummer
	receivables ReceivablesStore

	// now is injectable so period boundaries are testable.
	now func() time.Time
}

func NewReportService(credits RangeSummer, payments PaymentRangeSummer, receivables ReceivablesStore) *ReportService {
	return &ReportService{
		credits:     credits,
		payments:    payments,
		receivables: receivables,
		now:         time.Now,
	}
}

// TotalsForPeriod resolves a BS reporting period to an AD range and sums
// both ledger tables over it.
func (s *ReportService) TotalsForPeriod(ctx context.Context, period nepali.Period) (*PeriodReport, error) {
	r := nepali.PeriodRange(period, s.now())
	totals, err := s.totalsForRange(ctx, r)
	if err != nil {
		return nil, err
	}
	return &PeriodReport{
		Period: string(period),
		Range:  r,
		RangeBS: nepali.DateRange{
			StartAD: nepali.FormatBS(r.StartAD),
			EndAD:   nepali.FormatBS(r.EndAD),
		},
		Totals: *totals,
	}, nil
}

func (s *ReportService) TotalsForRange(ctx context.Context, startAD, endAD string) (*model.ReportTotals, error) {
	return s.totalsForRange(ctx, nepali.DateRange{StartAD: startAD, EndAD: endAD})
}

func (s *ReportService) totalsForRange(ctx context.Context, r nepali.DateRange) (*model.ReportTotals, error) {
	credits, err := s.credits.SumByDateRange(ctx, r.StartAD, r.EndAD)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.SumByDateRange(ctx, r.StartAD, r.EndAD)
	if err != nil {
		return nil, err
	}
	return &model.ReportTotals{
		TotalCredits:  credits,
		TotalPayments: payments,
		NetBalance:    credits - payments,
	}, nil
}

// CreditsInRange feeds the statement/PDF collaborator: every credit whose
// date falls in the inclusive range, newest first.
func (s *ReportService) CreditsInRange(ctx context.Context, startAD, endAD string) ([]*model.Credit, error) {
	return s.credits.ListByDateRange(ctx, startAD, endAD)
}

func (s *ReportService) PaymentsInRange(ctx context.Context, startAD, endAD string) ([]*model.Payment, error) {
	return s.payments.ListByDateRange(ctx, startAD, endAD)
}

func (s *ReportService) Receivables(ctx context.Context) (float64, error) {
	return s.receivables.TotalReceivables(ctx)
}
