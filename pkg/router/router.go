package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlerFunc is the shape of every domain operation. The router binds the
// request body or query string into Request and writes Response inside the
// standard envelope.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may derive a new context (e.g.
// attach the authenticated user id) or abort the request by returning an error.
type MiddlewareFunc func(ctx *Context) error

type Router struct {
	Inner gin.IRouter

	rootCtx     context.Context
	middlewares []MiddlewareFunc
}

// New creates a Router whose handlers run against rootCtx. The caller is
// expected to attach configs, logger, and database with the xcontext helpers
// before passing it in.
func New(rootCtx context.Context) *Router {
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{Inner: engine, rootCtx: rootCtx}
}

func (r *Router) Use(middleware MiddlewareFunc) {
	r.middlewares = append(r.middlewares, middleware)
}

// Group returns a branch with its own middleware chain, seeded with a copy of
// the parent's.
func (r *Router) Group(pattern string) *Router {
	branch := &Router{
		Inner:   r.Inner.Group(pattern),
		rootCtx: r.rootCtx,
	}
	branch.middlewares = append(branch.middlewares, r.middlewares...)

	return branch
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}
