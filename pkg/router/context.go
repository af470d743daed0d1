package router

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Context is what middlewares receive: the request-scoped context plus access
// to the underlying http request via gin.
type Context struct {
	context.Context
	Gin *gin.Context
}

// Replace swaps the embedded context. Middlewares use it to attach request
// values (user id, language) for the handler.
func (ctx *Context) Replace(inner context.Context) {
	ctx.Context = inner
}

// BearerToken extracts the token from the Authorization header, or falls back
// to the access token cookie.
func (ctx *Context) BearerToken(cookieName string) string {
	const prefix = "Bearer "
	authorization := ctx.Gin.GetHeader("Authorization")
	if len(authorization) > len(prefix) && authorization[:len(prefix)] == prefix {
		return authorization[len(prefix):]
	}

	if cookieName != "" {
		if cookie, err := ctx.Gin.Cookie(cookieName); err == nil {
			return cookie
		}
	}

	return ""
}
