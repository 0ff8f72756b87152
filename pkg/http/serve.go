// Package xhttp is a thin engine over fasthttp: one server, one router, a
// reversible middleware chain.
package xhttp

import (
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/udharokhata/credit-ledger/pkg/logger"
	"github.com/valyala/fasthttp"
)

type (
	RequestCtx     = fasthttp.RequestCtx
	RequestHandler = fasthttp.RequestHandler
	Server         = fasthttp.Server
)

const (
	StatusOK                  = fasthttp.StatusOK
	StatusCreated             = fasthttp.StatusCreated
	StatusBadRequest          = fasthttp.StatusBadRequest
	StatusNotFound            = fasthttp.StatusNotFound
	StatusRequestTimeout      = fasthttp.StatusRequestTimeout
	StatusUnprocessableEntity = fasthttp.StatusUnprocessableEntity
	StatusInternalServerError = fasthttp.StatusInternalServerError
)

func StatusText(code int) string { return fasthttp.StatusMessage(code) }

type ServerOption struct {
	Name               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	MaxRequestBodySize int
	Concurrency        int
}

var DefaultServerOption = ServerOption{
	Name:               "credit-ledger",
	ReadTimeout:        time.Millisecond * 2500,
	WriteTimeout:       time.Millisecond * 2500,
	IdleTimeout:        time.Second * 10,
	MaxRequestBodySize: 16 * 1024 * 1024, // backup uploads
	Concurrency:        10_000,
}

type Engine struct {
	*Router
	*Server
	middle []MiddlewareFunc
}

func NewServer(opt ServerOption) *Engine {
	return &Engine{
		Router: CreateDefaultRouter(),
		Server: &fasthttp.Server{
			Name:                  opt.Name,
			ReadTimeout:           opt.ReadTimeout,
			WriteTimeout:          opt.WriteTimeout,
			IdleTimeout:           opt.IdleTimeout,
			MaxRequestBodySize:    opt.MaxRequestBodySize,
			Concurrency:           opt.Concurrency,
			NoDefaultServerHeader: true,
			NoDefaultContentType:  true,
			CloseOnShutdown:       true,
			Logger:                logger.Get(),
		},
	}
}

// Use appends middleware; the first registered wraps outermost.
func (e *Engine) Use(m MiddlewareFunc) {
	e.middle = append(e.middle, m)
}

func (e *Engine) buildHandler() {
	for method, routes := range e.Router.List() {
		for _, r := range routes {
			e.Server.Logger.Printf("[xhttp] route %s %s", method, r)
		}
	}
	e.Server.Handler = e.Router.Handler
	slices.Reverse(e.middle)
	for _, m := range e.middle {
		e.Server.Handler = m(e.Server.Handler)
	}
}

func (e *Engine) ListenAndServe(addr string) error {
	e.buildHandler()
	e.Server.Logger.Printf("[xhttp] listening on %s", addr)
	return e.Server.ListenAndServe(addr)
}

// CloseOnSignal shuts the server down on SIGINT/SIGTERM.
func (e *Engine) CloseOnSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		e.Shutdown()
	}()
}

func (e *Engine) Shutdown() {
	e.Server.Logger.Printf("[xhttp] shutting down")
	if err := e.Server.Shutdown(); err != nil {
		e.Server.Logger.Printf("[xhttp] shutdown error: %v", err)
	}
}
