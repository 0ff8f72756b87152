package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/udharokhata/credit-ledger/internal/model"
	"github.com/udharokhata/credit-ledger/internal/services"
	xhttp "github.com/udharokhata/credit-ledger/pkg/http"
)

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

// pathID reads the {id} route segment. ok is false on a missing or
// non-numeric id; the caller is expected to 400.
func pathID(ctx *xhttp.RequestCtx) (int64, bool) {
	v, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// pageFilter pulls q/limit/offset from the query string. Out-of-range values
// are left for the repository to clamp.
func pageFilter(ctx *xhttp.RequestCtx) model.PageFilter {
	var f model.PageFilter
	f.Query = query(ctx, "q")
	if v := query(ctx, "limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}
	if v := query(ctx, "offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Offset = n
		}
	}
	return f
}

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	return json.Unmarshal(ctx.PostBody(), dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeServiceError maps the service sentinels onto HTTP statuses:
// not-found to 404, validation failures to 400, everything else 500.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrTransactionNotFound):
		writeError(ctx, xhttp.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrNameRequired),
		errors.Is(err, model.ErrMobileDigitsOnly),
		errors.Is(err, model.ErrMobileLength),
		errors.Is(err, model.ErrCustomerRequired),
		errors.Is(err, model.ErrAmountNotPositive):
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
	default:
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
	}
}
