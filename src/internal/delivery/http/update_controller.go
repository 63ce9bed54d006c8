package http

import (
	"time"

	"carpool-service/src/internal/delivery/http/middleware"
	"carpool-service/src/internal/model"
	"carpool-service/src/internal/usecase"
	httpError "carpool-service/src/pkg/http-error"
	"carpool-service/src/pkg/log"
	"carpool-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type UpdateController struct {
	Log     log.Log
	UseCase *usecase.UpdateUseCase
}

func NewUpdateController(useCase *usecase.UpdateUseCase, logger log.Log) *UpdateController {
	return &UpdateController{
		Log:     logger,
		UseCase: useCase,
	}
}

// Since serves GET /updates?since=<RFC3339>. Clients pass back the
// serverTime of the previous response.
func (c *UpdateController) Since(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	since, err := time.Parse(time.RFC3339Nano, ctx.Query("since"))
	if err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = "since must be an RFC3339 timestamp"
		return utils.ResponseError(errObj, ctx)
	}

	request := &model.UpdatesRequest{
		UserID: auth.UserID,
		Since:  since,
	}
	result := c.UseCase.Since(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Updates", fiber.StatusOK, ctx)
}
