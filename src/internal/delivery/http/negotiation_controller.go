package http

import (
	"carpool-service/src/internal/delivery/http/middleware"
	"carpool-service/src/internal/model"
	"carpool-service/src/internal/usecase"
	"carpool-service/src/pkg/log"
	"carpool-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type NegotiationController struct {
	Log     log.Log
	UseCase *usecase.NegotiationUseCase
}

func NewNegotiationController(useCase *usecase.NegotiationUseCase, logger log.Log) *NegotiationController {
	return &NegotiationController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *NegotiationController) Create(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CreateNegotiationRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("NegotiationController.Create", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.PassengerID = auth.UserID

	result := c.UseCase.Create(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Negotiation Started", fiber.StatusCreated, ctx)
}

func (c *NegotiationController) List(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.ListNegotiationsRequest{
		UserID: auth.UserID,
		TripID: ctx.Query("tripId"),
		Status: ctx.Query("status"),
	}
	result := c.UseCase.List(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Negotiations", fiber.StatusOK, ctx)
}

func (c *NegotiationController) Get(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.GetNegotiationRequest{
		UserID:        auth.UserID,
		NegotiationID: ctx.Params("id"),
	}
	result := c.UseCase.Get(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Negotiation Detail", fiber.StatusOK, ctx)
}

func (c *NegotiationController) CounterOffer(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CounterOfferRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("NegotiationController.CounterOffer", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.UserID = auth.UserID
	request.NegotiationID = ctx.Params("id")

	result := c.UseCase.CounterOffer(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Counter Offer Sent", fiber.StatusOK, ctx)
}

func (c *NegotiationController) Accept(ctx *fiber.Ctx) error {
	request, err := c.reply(ctx)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	result := c.UseCase.Accept(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Negotiation Accepted", fiber.StatusOK, ctx)
}

func (c *NegotiationController) Reject(ctx *fiber.Ctx) error {
	request, err := c.reply(ctx)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	result := c.UseCase.Reject(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Negotiation Rejected", fiber.StatusOK, ctx)
}

func (c *NegotiationController) reply(ctx *fiber.Ctx) (*model.NegotiationReplyRequest, error) {
	request := new(model.NegotiationReplyRequest)
	if err := parseOptionalBody(ctx, request); err != nil {
		c.Log.Error("NegotiationController.reply", "Failed to parse request body", "error", err.Error())
		return nil, badBody(err)
	}
	request.UserID = middleware.GetUser(ctx).UserID
	request.NegotiationID = ctx.Params("id")
	return request, nil
}
