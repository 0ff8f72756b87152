package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/udharokhata/credit-ledger/internal/model"
	xhttp "github.com/udharokhata/credit-ledger/pkg/http"
)

type TransactionService interface {
	ListCredits(ctx context.Context, f model.PageFilter) ([]*model.CreditWithCustomer, int64, error)
	CreateCredit(ctx context.Context, req model.CreditCreateRequest) (*model.Credit, error)
	UpdateCredit(ctx context.Context, id int64, req model.CreditUpdateRequest) (*model.Credit, error)
	DeleteCredit(ctx context.Context, id int64) error
	CreditLogs(ctx context.Context, creditID int64) ([]*model.CreditLog, error)

	ListPayments(ctx context.Context, f model.PageFilter) ([]*model.PaymentWithCustomer, int64, error)
	CreatePayment(ctx context.Context, req model.PaymentCreateRequest) (*model.Payment, error)
	UpdatePayment(ctx context.Context, id int64, req model.PaymentUpdateRequest) (*model.Payment, error)
	DeletePayment(ctx context.Context, id int64) error
	PaymentLogs(ctx context.Context, paymentID int64) ([]*model.PaymentLog, error)
}

type TransactionHandler struct {
	svc TransactionService
}

func NewTransactionHandler(svc TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

func RegisterTransactionRoutes(e *router.Group, h *TransactionHandler) {
	e.GET("/credits", h.ListCredits)
	e.POST("/credits", h.CreateCredit)
	e.PUT("/credits/{id}", h.UpdateCredit)
	e.DELETE("/credits/{id}", h.DeleteCredit)
	e.GET("/credits/{id}/logs", h.CreditLogs)

	e.GET("/payments", h.ListPayments)
	e.POST("/payments", h.CreatePayment)
	e.PUT("/payments/{id}", h.UpdatePayment)
	e.DELETE("/payments/{id}", h.DeletePayment)
	e.GET("/payments/{id}/logs", h.PaymentLogs)
}

type creditListResponse struct {
	Items []*model.CreditWithCustomer `json:"items"`
	Total int64                       `json:"total"`
}

type paymentListResponse struct {
	Items []*model.PaymentWithCustomer `json:"items"`
	Total int64                        `json:"total"`
}

func (h *TransactionHandler) ListCredits(ctx *xhttp.RequestCtx) {
	items, total, err := h.svc.ListCredits(ctx, pageFilter(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, creditListResponse{Items: items, Total: total})
}

func (h *TransactionHandler) CreateCredit(ctx *xhttp.RequestCtx) {
	var req model.CreditCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	credit, err := h.svc.CreateCredit(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, credit)
}

func (h *TransactionHandler) UpdateCredit(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid credit id")
		return
	}
	var req model.CreditUpdateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	credit, err := h.svc.UpdateCredit(ctx, id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, credit)
}

func (h *TransactionHandler) DeleteCredit(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid credit id")
		return
	}
	if err := h.svc.DeleteCredit(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]bool{"deleted": true})
}

func (h *TransactionHandler) CreditLogs(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid credit id")
		return
	}
	logs, err := h.svc.CreditLogs(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, logs)
}

func (h *TransactionHandler) ListPayments(ctx *xhttp.RequestCtx) {
	items, total, err := h.svc.ListPayments(ctx, pageFilter(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, paymentListResponse{Items: items, Total: total})
}

func (h *TransactionHandler) CreatePayment(ctx *xhttp.RequestCtx) {
	var req model.PaymentCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	payment, err := h.svc.CreatePayment(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, payment)
}

func (h *TransactionHandler) UpdatePayment(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid payment id")
		return
	}
	var req model.PaymentUpdateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	payment, err := h.svc.UpdatePayment(ctx, id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, payment)
}

func (h *TransactionHandler) DeletePayment(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid payment id")
		return
	}
	if err := h.svc.DeletePayment(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]bool{"deleted": true})
}

func (h *TransactionHandler) PaymentLogs(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid payment id")
		return
	}
	logs, err := h.svc.PaymentLogs(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, logs)
}
