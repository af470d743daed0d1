package middleware

import (
	"strings"

	"github.com/bprlabs/backend/pkg/router"
	"github.com/bprlabs/backend/pkg/xcontext"
)

// WithLanguage picks the response language from the Accept-Language header.
// Only "en" and "pt" are supported; anything else falls through to the
// patient profile default.
func WithLanguage() router.MiddlewareFunc {
	return func(ctx *router.Context) error {
		header := ctx.Gin.GetHeader("Accept-Language")
		lang := strings.ToLower(strings.SplitN(header, ",", 2)[0])
		if len(lang) >= 2 {
			lang = lang[:2]
		}

		switch lang {
		case "en", "pt":
			ctx.Replace(xcontext.WithLanguage(ctx.Context, lang))
		}

		return nil
	}
}
