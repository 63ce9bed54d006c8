package config

import (
	"carpool-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

func NewFiber(config *viper.Viper) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      config.GetString("app.name"),
		ErrorHandler: NewErrorHandler(),
		Prefork:      config.GetBool("web.prefork"),
		ReadTimeout:  config.GetDuration("web.read_timeout"),
		WriteTimeout: config.GetDuration("web.write_timeout"),
	})
}

// NewErrorHandler renders unhandled errors (unknown routes, body limits) in
// the same envelope as use case errors.
func NewErrorHandler() fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		return utils.ResponseError(err, ctx)
	}
}
