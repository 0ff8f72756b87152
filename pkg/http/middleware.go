package xhttp

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/udharokhata/credit-ledger/pkg/logger"
	"github.com/valyala/fasthttp"
)

type MiddlewareFunc func(next RequestHandler) RequestHandler

const slowThreshold = 500 * time.Millisecond

const requestIDHeader = "X-Request-Id"

var skipPaths = []string{"/health", "/metrics"}

func TimeoutMiddleware(timeout time.Duration) MiddlewareFunc {
	return func(next RequestHandler) RequestHandler {
		return fasthttp.TimeoutWithCodeHandler(next, timeout, StatusText(StatusRequestTimeout), StatusRequestTimeout)
	}
}

func RecoverMiddleware(next RequestHandler) RequestHandler {
	return func(ctx *RequestCtx) {
		defer func() {
			if r := recover(); r != nil {
				ctx.Error(StatusText(StatusInternalServerError), StatusInternalServerError)
				logger.Error("[xhttp] panic recovered", "error", r, "path", string(ctx.Path()))
			}
		}()
		next(ctx)
	}
}

// RequestIDMiddleware echoes an incoming X-Request-Id or mints one.
func RequestIDMiddleware(next RequestHandler) RequestHandler {
	return func(ctx *RequestCtx) {
		rid := string(ctx.Request.Header.Peek(requestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
			ctx.Request.Header.Set(requestIDHeader, rid)
		}
		ctx.Response.Header.Set(requestIDHeader, rid)
		next(ctx)
	}
}

func RequestLoggerMiddleware(next RequestHandler) RequestHandler {
	return func(ctx *RequestCtx) {
		path := string(ctx.Path())
		if shouldSkip(path) {
			next(ctx)
			return
		}

		start := time.Now()
		next(ctx)
		latency := time.Since(start)
		status := ctx.Response.StatusCode()

		fields := []any{
			"status", status,
			"method", string(ctx.Method()),
			"path", path,
			"latency", latency.String(),
			"ip", ctx.RemoteIP().String(),
			"request_id", string(ctx.Request.Header.Peek(requestIDHeader)),
		}
		switch {
		case status >= 500:
			logger.Error("http_request", fields...)
		case status >= 400 || latency > slowThreshold:
			logger.Warn("http_request", fields...)
		default:
			logger.Info("http_request", fields...)
		}
	}
}

func shouldSkip(p string) bool {
	for _, sp := range skipPaths {
		if strings.HasPrefix(p, sp) {
			return true
		}
	}
	return false
}
