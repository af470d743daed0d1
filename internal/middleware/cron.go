package middleware

import (
	"crypto/subtle"

	"github.com/bprlabs/backend/pkg/errorx"
	"github.com/bprlabs/backend/pkg/router"
	"github.com/bprlabs/backend/pkg/xcontext"
)

// VerifyCronSecret guards the scheduled job endpoints. The scheduler passes
// the shared secret in a header instead of a user token.
func VerifyCronSecret() router.MiddlewareFunc {
	return func(ctx *router.Context) error {
		secret := xcontext.Configs(ctx).Auth.CronSecret
		given := ctx.Gin.GetHeader("X-Cron-Secret")

		if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(given)) != 1 {
			return errorx.New(errorx.Unauthenticated, "Invalid cron secret")
		}

		return nil
	}
}
