package handlers

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fasthttp/router"
	"github.com/pkg/errors"
	"github.com/udharokhata/credit-ledger/internal/backup"
	xhttp "github.com/udharokhata/credit-ledger/pkg/http"
)

type BackupService interface {
	Export(ctx context.Context) (string, error)
	Import(ctx context.Context, filename string, script []byte) error
}

type BackupHandler struct {
	svc BackupService
}

func NewBackupHandler(svc BackupService) *BackupHandler {
	return &BackupHandler{svc: svc}
}

func RegisterBackupRoutes(e *router.Group, h *BackupHandler) {
	e.GET("/backup/export", h.Export)
	e.POST("/backup/import", h.Import)
}

// Export streams the full store as a downloadable SQL script.
func (h *BackupHandler) Export(ctx *xhttp.RequestCtx) {
	script, err := h.svc.Export(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	filename := fmt.Sprintf("ledger-backup-%s.sql", time.Now().UTC().Format("2006-01-02"))
	ctx.Response.Header.Set("Content-Type", "application/sql; charset=utf-8")
	ctx.Response.Header.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Response.SetStatusCode(xhttp.StatusOK)
	ctx.Response.SetBodyString(script)
}

// Import restores from an uploaded .sql file (multipart field "file").
// A failed restore leaves the store untouched.
func (h *BackupHandler) Import(ctx *xhttp.RequestCtx) {
	header, err := ctx.FormFile("file")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "missing file upload: "+err.Error())
		return
	}
	f, err := header.Open()
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "unreadable upload: "+err.Error())
		return
	}
	defer f.Close()
	script, err := io.ReadAll(f)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "unreadable upload: "+err.Error())
		return
	}

	if err := h.svc.Import(ctx, header.Filename, script); err != nil {
		if errors.Is(err, backup.ErrNotSQLFile) {
			writeError(ctx, xhttp.StatusBadRequest, err.Error())
			return
		}
		writeError(ctx, xhttp.StatusUnprocessableEntity, "restore failed, store unchanged: "+err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]bool{"restored": true})
}
