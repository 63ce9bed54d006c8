package http

import (
	"carpool-service/src/internal/delivery/http/middleware"
	"carpool-service/src/internal/model"
	"carpool-service/src/internal/usecase"
	"carpool-service/src/pkg/log"
	"carpool-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type TripController struct {
	Log     log.Log
	UseCase *usecase.TripUseCase
}

func NewTripController(useCase *usecase.TripUseCase, logger log.Log) *TripController {
	return &TripController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *TripController) Create(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CreateTripRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("TripController.Create", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.DriverID = auth.UserID

	result := c.UseCase.Create(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Trip Created", fiber.StatusCreated, ctx)
}

func (c *TripController) ListMine(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.ListTripsRequest{
		DriverID: auth.UserID,
		Status:   ctx.Query("status"),
	}
	result := c.UseCase.ListMine(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "My Trips", fiber.StatusOK, ctx)
}

func (c *TripController) Get(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.TripActionRequest{
		UserID: auth.UserID,
		TripID: ctx.Params("id"),
	}
	result := c.UseCase.Get(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Trip Detail", fiber.StatusOK, ctx)
}

func (c *TripController) Cancel(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.TripActionRequest{
		UserID: auth.UserID,
		TripID: ctx.Params("id"),
	}
	result := c.UseCase.Cancel(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Trip Cancelled", fiber.StatusOK, ctx)
}

func (c *TripController) Complete(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.TripActionRequest{
		UserID: auth.UserID,
		TripID: ctx.Params("id"),
	}
	result := c.UseCase.Complete(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Trip Completed", fiber.StatusOK, ctx)
}

func (c *TripController) SuggestPrice(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.PriceSuggestionRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("TripController.SuggestPrice", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.UserID = auth.UserID

	result := c.UseCase.SuggestPrice(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Price Suggestion", fiber.StatusOK, ctx)
}
