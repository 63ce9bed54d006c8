package http

import (
	httpError "carpool-service/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
)

// parseOptionalBody accepts an empty body for actions whose payload is optional.
func parseOptionalBody(ctx *fiber.Ctx, out interface{}) error {
	if len(ctx.Body()) == 0 {
		return nil
	}
	return ctx.BodyParser(out)
}

func badBody(err error) *httpError.CommonError {
	errObj := httpError.NewBadRequest()
	errObj.Message = "invalid request body: " + err.Error()
	return errObj
}
