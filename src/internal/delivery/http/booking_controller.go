package http

import (
	"carpool-service/src/internal/delivery/http/middleware"
	"carpool-service/src/internal/model"
	"carpool-service/src/internal/usecase"
	"carpool-service/src/pkg/log"
	"carpool-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type BookingController struct {
	Log     log.Log
	UseCase *usecase.BookingUseCase
}

func NewBookingController(useCase *usecase.BookingUseCase, logger log.Log) *BookingController {
	return &BookingController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *BookingController) Create(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CreateBookingRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("BookingController.Create", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.PassengerID = auth.UserID

	result := c.UseCase.Create(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Booking Created", fiber.StatusCreated, ctx)
}

func (c *BookingController) List(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.ListBookingsRequest{
		PassengerID: auth.UserID,
		Status:      ctx.Query("status"),
	}
	result := c.UseCase.List(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "My Bookings", fiber.StatusOK, ctx)
}

func (c *BookingController) ListByTrip(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.ListTripBookingsRequest{
		UserID: auth.UserID,
		TripID: ctx.Params("tripId"),
	}
	result := c.UseCase.ListByTrip(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Trip Bookings", fiber.StatusOK, ctx)
}

func (c *BookingController) Get(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.BookingActionRequest{
		UserID:    auth.UserID,
		BookingID: ctx.Params("id"),
	}
	result := c.UseCase.Get(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Booking Detail", fiber.StatusOK, ctx)
}

func (c *BookingController) Confirm(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.BookingActionRequest{
		UserID:    auth.UserID,
		BookingID: ctx.Params("id"),
	}
	result := c.UseCase.Confirm(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Booking Confirmed", fiber.StatusOK, ctx)
}

func (c *BookingController) Cancel(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CancelBookingRequest)
	if err := parseOptionalBody(ctx, request); err != nil {
		c.Log.Error("BookingController.Cancel", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.UserID = auth.UserID
	request.BookingID = ctx.Params("id")

	result := c.UseCase.Cancel(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Booking Cancelled", fiber.StatusOK, ctx)
}
