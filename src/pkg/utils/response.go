package utils

import (
	httpError "carpool-service/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
)

type BaseWrapperModel struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorWrapperModel struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func Response(data interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(BaseWrapperModel{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// ResponseError renders err with its taxonomy code. Errors that are not
// *httperror.CommonError are reported as fiber errors or internal errors.
func ResponseError(err error, ctx *fiber.Ctx) error {
	errObj := toCommonError(err)
	return ctx.Status(errObj.Code).JSON(ErrorWrapperModel{
		Success: false,
		Code:    errObj.Code,
		Reason:  errObj.Reason,
		Message: errObj.Message,
	})
}

func toCommonError(err error) *httpError.CommonError {
	if ce, ok := httpError.As(err); ok {
		return ce
	}
	if fe, ok := err.(*fiber.Error); ok {
		errObj := httpError.NewBadRequest()
		if fe.Code >= fiber.StatusInternalServerError {
			errObj = httpError.NewInternalServerError()
		}
		errObj.Code = fe.Code
		errObj.Message = fe.Message
		return errObj
	}
	return httpError.NewInternalServerError()
}
