package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/udharokhata/credit-ledger/internal/model"
	"github.com/udharokhata/credit-ledger/internal/services"
	xhttp "github.com/udharokhata/credit-ledger/pkg/http"
	"github.com/udharokhata/credit-ledger/pkg/nepali"
)

type ReportService interface {
	TotalsForPeriod(ctx context.Context, period nepali.Period) (*services.PeriodReport, error)
	TotalsForRange(ctx context.Context, startAD, endAD string) (*model.ReportTotals, error)
	Receivables(ctx context.Context) (float64, error)
}

type ReportHandler struct {
	svc ReportService
}

func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func RegisterReportRoutes(e *router.Group, h *ReportHandler) {
	e.GET("/reports/totals", h.Totals)
	e.GET("/reports/receivables", h.Receivables)
}

// Totals serves either ?period=today|week|month|year (BS period boundaries)
// or an explicit ?start=YYYY-MM-DD&end=YYYY-MM-DD AD range.
func (h *ReportHandler) Totals(ctx *xhttp.RequestCtx) {
	if start, end := query(ctx, "start"), query(ctx, "end"); start != "" && end != "" {
		totals, err := h.svc.TotalsForRange(ctx, start, end)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		writeJSON(ctx, xhttp.StatusOK, totals)
		return
	}

	period := nepali.Period(query(ctx, "period"))
	switch period {
	case nepali.PeriodToday, nepali.PeriodWeek, nepali.PeriodMonth, nepali.PeriodYear:
	case "":
		period = nepali.PeriodToday
	default:
		writeError(ctx, xhttp.StatusBadRequest, "unknown period")
		return
	}

	report, err := h.svc.TotalsForPeriod(ctx, period)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, report)
}

func (h *ReportHandler) Receivables(ctx *xhttp.RequestCtx) {
	total, err := h.svc.Receivables(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]float64{"total_receivables": total})
}
