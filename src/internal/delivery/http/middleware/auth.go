package middleware

import (
	"strings"

	httpError "carpool-service/src/pkg/http-error"
	"carpool-service/src/pkg/token"
	"carpool-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

const authLocalsKey = "auth"

// VerifyBearer rejects requests without a valid HS256 token signed with
// jwt.secret and stores the caller's metadata for GetUser.
func VerifyBearer(cfg *viper.Viper) fiber.Handler {
	secret := cfg.GetString("jwt.secret")
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		raw := strings.TrimPrefix(header, "Bearer ")
		if header == "" || raw == header {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "bearer token required"
			return utils.ResponseError(errObj, ctx)
		}

		claim, err := token.Parse(raw, secret)
		if err != nil {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "invalid or expired token"
			return utils.ResponseError(errObj, ctx)
		}

		ctx.Locals(authLocalsKey, &claim.Metadata)
		return ctx.Next()
	}
}

func GetUser(ctx *fiber.Ctx) *token.Metadata {
	if meta, ok := ctx.Locals(authLocalsKey).(*token.Metadata); ok {
		return meta
	}
	return &token.Metadata{}
}
