package route

import (
	"carpool-service/src/internal/delivery/http"
	"carpool-service/src/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouteConfig struct {
	App                   *fiber.App
	TripController        *http.TripController
	NegotiationController *http.NegotiationController
	BookingController     *http.BookingController
	CommissionController  *http.CommissionController
	UpdateController      *http.UpdateController
	AuthMiddleware        fiber.Handler
	IdempotencyMiddleware fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(middleware.NewMetrics())
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	c.SetupAuthRoute()
}

func (c *RouteConfig) SetupAuthRoute() {
	c.App.Use(c.AuthMiddleware)
	if c.IdempotencyMiddleware != nil {
		c.App.Use(c.IdempotencyMiddleware)
	}

	c.App.Post("/trips", c.TripController.Create)
	c.App.Get("/trips/mine", c.TripController.ListMine)
	c.App.Post("/trips/price-suggestion", c.TripController.SuggestPrice)
	c.App.Get("/trips/:id", c.TripController.Get)
	c.App.Post("/trips/:id/cancel", c.TripController.Cancel)
	c.App.Post("/trips/:id/complete", c.TripController.Complete)

	c.App.Post("/negotiations", c.NegotiationController.Create)
	c.App.Get("/negotiations", c.NegotiationController.List)
	c.App.Get("/negotiations/:id", c.NegotiationController.Get)
	c.App.Post("/negotiations/:id/counter-offer", c.NegotiationController.CounterOffer)
	c.App.Post("/negotiations/:id/accept", c.NegotiationController.Accept)
	c.App.Post("/negotiations/:id/reject", c.NegotiationController.Reject)

	c.App.Post("/bookings", c.BookingController.Create)
	c.App.Get("/bookings", c.BookingController.List)
	c.App.Get("/bookings/trip/:tripId", c.BookingController.ListByTrip)
	c.App.Get("/bookings/:id", c.BookingController.Get)
	c.App.Post("/bookings/:id/confirm", c.BookingController.Confirm)
	c.App.Post("/bookings/:id/cancel", c.BookingController.Cancel)

	c.App.Get("/admin/commission-rate", c.CommissionController.GetRate)
	c.App.Put("/admin/commission-rate", c.CommissionController.UpdateRate)
	c.App.Get("/commission/quote", c.CommissionController.Quote)

	c.App.Get("/updates", c.UpdateController.Since)
}
