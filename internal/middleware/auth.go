package middleware

import (
	"github.com/bprlabs/backend/internal/model"
	"github.com/bprlabs/backend/pkg/errorx"
	"github.com/bprlabs/backend/pkg/jwt"
	"github.com/bprlabs/backend/pkg/router"
	"github.com/bprlabs/backend/pkg/xcontext"
)

const accessTokenCookie = "access_token"

// Authenticate verifies the bearer token and attaches the caller identity to
// the request context.
func Authenticate(engine *jwt.Engine[model.AccessToken]) router.MiddlewareFunc {
	return func(ctx *router.Context) error {
		token := ctx.BearerToken(accessTokenCookie)
		if token == "" {
			return errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		accessToken, err := engine.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		inner := xcontext.WithRequestUserID(ctx.Context, accessToken.ID)
		inner = xcontext.WithAdmin(inner, accessToken.IsAdmin)
		ctx.Replace(inner)

		return nil
	}
}

func OnlyAdmin() router.MiddlewareFunc {
	return func(ctx *router.Context) error {
		if !xcontext.IsAdmin(ctx) {
			return errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		return nil
	}
}
