package xhttp

import (
	"github.com/fasthttp/router"
)

type Router = router.Router
type RouterGroup = router.Group

func NewRouter() *Router {
	return router.New()
}

// CreateDefaultRouter returns a router with sane fallbacks wired.
func CreateDefaultRouter() *Router {
	r := NewRouter()
	r.RedirectTrailingSlash = true
	r.SaveMatchedRoutePath = true
	r.NotFound = NotFoundHandler
	r.MethodNotAllowed = NotFoundHandler
	r.HandleMethodNotAllowed = true
	return r
}

func NotFoundHandler(ctx *RequestCtx) {
	ctx.Error(StatusText(StatusNotFound), StatusNotFound)
}
