package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/udharokhata/credit-ledger/internal/model"
	"github.com/udharokhata/credit-ledger/internal/services"
	xhttp "github.com/udharokhata/credit-ledger/pkg/http"
	"github.com/udharokhata/credit-ledger/pkg/nepali"
)

type CustomerService interface {
	ListCustomers(ctx context.Context, f model.PageFilter) ([]*model.CustomerWithBalance, int64, error)
	AllCustomers(ctx context.Context) ([]*model.Customer, error)
	CustomerSummary(ctx context.Context, id int64) (*services.CustomerSummary, error)
	CreateCustomer(ctx context.Context, req model.CustomerCreateRequest) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, req model.CustomerUpdateRequest) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

type CustomerHandler struct {
	svc CustomerService
}

func NewCustomerHandler(svc CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

func RegisterCustomerRoutes(e *router.Group, h *CustomerHandler) {
	e.GET("/customers", h.ListCustomers)
	e.GET("/customers/all", h.AllCustomers)
	e.GET("/customers/{id}", h.GetCustomer)
	e.POST("/customers", h.CreateCustomer)
	e.PUT("/customers/{id}", h.UpdateCustomer)
	e.DELETE("/customers/{id}", h.DeleteCustomer)
}

type customerListItem struct {
	*model.CustomerWithBalance
	// BS rendering of the last activity, for display.
	LastTransactionDateBS *string `json:"last_transaction_date_bs"`
}

type customerListResponse struct {
	Items []customerListItem `json:"items"`
	Total int64              `json:"total"`
}

func (h *CustomerHandler) ListCustomers(ctx *xhttp.RequestCtx) {
	items, total, err := h.svc.ListCustomers(ctx, pageFilter(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	out := make([]customerListItem, len(items))
	for i, c := range items {
		out[i] = customerListItem{CustomerWithBalance: c}
		if c.LastTransactionDate != nil {
			bs := nepali.FormatBS(*c.LastTransactionDate)
			out[i].LastTransactionDateBS = &bs
		}
	}
	writeJSON(ctx, xhttp.StatusOK, customerListResponse{Items: out, Total: total})
}

func (h *CustomerHandler) AllCustomers(ctx *xhttp.RequestCtx) {
	customers, err := h.svc.AllCustomers(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, customers)
}

func (h *CustomerHandler) GetCustomer(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid customer id")
		return
	}
	summary, err := h.svc.CustomerSummary(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, summary)
}

func (h *CustomerHandler) CreateCustomer(ctx *xhttp.RequestCtx) {
	var req model.CustomerCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	customer, err := h.svc.CreateCustomer(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, customer)
}

func (h *CustomerHandler) UpdateCustomer(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid customer id")
		return
	}
	var req model.CustomerUpdateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	customer, err := h.svc.UpdateCustomer(ctx, id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, customer)
}

func (h *CustomerHandler) DeleteCustomer(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid customer id")
		return
	}
	if err := h.svc.DeleteCustomer(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]bool{"deleted": true})
}
