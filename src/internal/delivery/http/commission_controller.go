package http

import (
	"carpool-service/src/internal/delivery/http/middleware"
	"carpool-service/src/internal/model"
	"carpool-service/src/internal/usecase"
	"carpool-service/src/pkg/log"
	"carpool-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type CommissionController struct {
	Log     log.Log
	UseCase *usecase.CommissionUseCase
}

func NewCommissionController(useCase *usecase.CommissionUseCase, logger log.Log) *CommissionController {
	return &CommissionController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *CommissionController) GetRate(ctx *fiber.Ctx) error {
	result := c.UseCase.GetRate(ctx.UserContext())
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Commission Rate", fiber.StatusOK, ctx)
}

func (c *CommissionController) UpdateRate(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.UpdateCommissionRateRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("CommissionController.UpdateRate", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.UserID = auth.UserID
	request.IsAdmin = auth.IsAdmin()

	result := c.UseCase.UpdateRate(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Commission Rate Updated", fiber.StatusOK, ctx)
}

func (c *CommissionController) Quote(ctx *fiber.Ctx) error {
	request := new(model.CommissionQuoteRequest)
	if err := ctx.QueryParser(request); err != nil {
		return utils.ResponseError(badBody(err), ctx)
	}

	result := c.UseCase.Quote(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Commission Quote", fiber.StatusOK, ctx)
}
