package config

import (
	"carpool-service/src/internal/delivery/http"
	"carpool-service/src/internal/delivery/http/middleware"
	"carpool-service/src/internal/delivery/http/route"
	"carpool-service/src/internal/delivery/worker"
	"carpool-service/src/internal/delivery/ws"
	"carpool-service/src/internal/gateway/messaging"
	"carpool-service/src/internal/gateway/scheduler"
	"carpool-service/src/internal/repository"
	"carpool-service/src/internal/usecase"
	"carpool-service/src/pkg/commission"
	"carpool-service/src/pkg/databases/mysql"
	"carpool-service/src/pkg/kafka"
	"carpool-service/src/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

const defaultCommissionRate = commission.Rate(160000)

type BootstrapConfig struct {
	DB          mysql.DBInterface
	App         *fiber.App
	Log         log.Log
	Validate    *validator.Validate
	Config      *viper.Viper
	Producer    kafka.Producer
	Redis       redis.UniversalClient
	Geoservice  *GeoService
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
	Hub         *ws.Hub
}

// Services exposes the components main runs outside of the HTTP server.
type Services struct {
	Negotiations *usecase.NegotiationUseCase
}

func Bootstrap(config *BootstrapConfig) *Services {
	// setup repositories
	tripRepository := repository.NewTripRepository(config.DB)
	bookingRepository := repository.NewBookingRepository(config.DB)
	negotiationRepository := repository.NewNegotiationRepository(config.DB)
	settingRepository := repository.NewSettingRepository(config.DB)
	commissionCache := repository.NewRedisCommissionCache(config.Redis, config.Config.GetDuration("commission.cache_ttl"))

	// setup gateways
	carpoolProducer := messaging.NewCarpoolProducer(config.Producer, config.Log)
	var pusher usecase.Pusher
	if config.Hub != nil {
		pusher = config.Hub
	}
	notifier := usecase.NewChangeNotifier(config.Log, carpoolProducer, pusher)

	var expiryScheduler usecase.ExpiryScheduler
	if config.AsynqClient != nil {
		expiryScheduler = scheduler.NewNegotiationExpiryScheduler(config.AsynqClient, config.Config.GetString("asynq.queue"))
	}
	var routes usecase.RouteFinder
	if config.Geoservice != nil && config.Geoservice.Client != nil {
		routes = config.Geoservice.Client
	}

	defaultRate, err := commission.ParseRate(config.Config.GetFloat64("commission.default_rate"))
	if err != nil {
		config.Log.Error("bootstrap", err.Error(), "commission", "falling back to 0.16")
		defaultRate = defaultCommissionRate
	}

	// setup use cases
	commissionUseCase := usecase.NewCommissionUseCase(
		config.Log,
		config.Validate,
		settingRepository,
		commissionCache,
		defaultRate,
		notifier,
	)
	tripUseCase := usecase.NewTripUseCase(
		config.Log,
		config.Validate,
		tripRepository,
		config.Config,
		config.Redis,
		routes,
		notifier,
	)
	bookingUseCase := usecase.NewBookingUseCase(
		config.Log,
		config.Validate,
		tripRepository,
		bookingRepository,
		commissionUseCase,
		config.Config,
		notifier,
	)
	negotiationUseCase := usecase.NewNegotiationUseCase(
		config.Log,
		config.Validate,
		tripRepository,
		negotiationRepository,
		commissionUseCase,
		expiryScheduler,
		notifier,
		config.Config.GetDuration("negotiation.expiry_timeout"),
		config.Config.GetDuration("negotiation.sweep_interval"),
	)
	updateUseCase := usecase.NewUpdateUseCase(
		config.Log,
		config.Validate,
		bookingRepository,
		negotiationRepository,
		config.Config.GetDuration("updates.commit_window"),
	)

	// setup controller
	tripController := http.NewTripController(tripUseCase, config.Log)
	negotiationController := http.NewNegotiationController(negotiationUseCase, config.Log)
	bookingController := http.NewBookingController(bookingUseCase, config.Log)
	commissionController := http.NewCommissionController(commissionUseCase, config.Log)
	updateController := http.NewUpdateController(updateUseCase, config.Log)

	// setup middleware
	authMiddleware := middleware.VerifyBearer(config.Config)
	idempotencyMiddleware := middleware.NewIdempotency(
		config.Redis,
		config.Config.GetDuration("idempotency.ttl"),
		config.Config.GetDuration("idempotency.in_flight_ttl"),
		config.Log,
	)

	if config.Async != nil {
		worker.NewExpiryHandler(negotiationUseCase, config.Log).Register(config.Async)
	}

	routeConfig := route.RouteConfig{
		App:                   config.App,
		TripController:        tripController,
		NegotiationController: negotiationController,
		BookingController:     bookingController,
		CommissionController:  commissionController,
		UpdateController:      updateController,
		AuthMiddleware:        authMiddleware,
		IdempotencyMiddleware: idempotencyMiddleware,
	}
	routeConfig.Setup()

	return &Services{Negotiations: negotiationUseCase}
}
