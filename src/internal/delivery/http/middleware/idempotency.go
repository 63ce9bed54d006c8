package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	httpError "carpool-service/src/pkg/http-error"
	"carpool-service/src/pkg/log"
	"carpool-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 128
	inFlightMarker       = "IN_FLIGHT"

	// DefaultInFlightTTL bounds how long a crashed request keeps its key locked.
	DefaultInFlightTTL = 30 * time.Second
)

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// IdempotencyKey scopes a client key to the caller and the exact request
// target, so the same key sent to another endpoint runs independently.
func IdempotencyKey(userID, method, path, key string) string {
	return fmt.Sprintf("IDEMPOTENCY:%s:%s:%s:%s", userID, method, path, key)
}

// NewIdempotency makes mutating requests that carry an Idempotency-Key safe
// to retry. The key is locked before the handler runs; a duplicate arriving
// while the first is still running gets 409, and one arriving afterwards gets
// the stored response. Responses of 500 and above release the key so server
// failures stay retryable.
func NewIdempotency(client redis.UniversalClient, ttl, inFlightTTL time.Duration, logger log.Log) fiber.Handler {
	if inFlightTTL <= 0 {
		inFlightTTL = DefaultInFlightTTL
	}
	return func(ctx *fiber.Ctx) error {
		key := ctx.Get(HeaderIdempotencyKey)
		if key == "" || ctx.Method() == fiber.MethodGet || client == nil {
			return ctx.Next()
		}
		if len(key) > maxIdempotencyKeyLen {
			return fiber.NewError(fiber.StatusBadRequest, "idempotency key too long")
		}

		user := GetUser(ctx)
		if user.UserID == "" {
			return ctx.Next()
		}
		redisKey := IdempotencyKey(user.UserID, ctx.Method(), ctx.Path(), key)

		locked, err := client.SetNX(ctx.Context(), redisKey, inFlightMarker, inFlightTTL).Result()
		if err != nil {
			logger.Error("idempotency-middleware", err.Error(), "Lock", redisKey)
			return ctx.Next()
		}
		if !locked {
			return replay(ctx, client, redisKey, logger)
		}

		if err := ctx.Next(); err != nil {
			release(client, redisKey, logger)
			return err
		}

		status := ctx.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			release(client, redisKey, logger)
			return nil
		}
		payload, err := json.Marshal(storedResponse{
			Status:      status,
			ContentType: string(ctx.Response().Header.ContentType()),
			Body:        append([]byte(nil), ctx.Response().Body()...),
		})
		if err != nil {
			release(client, redisKey, logger)
			return nil
		}
		if err := client.Set(context.Background(), redisKey, payload, ttl).Err(); err != nil {
			logger.Error("idempotency-middleware", err.Error(), "Store", redisKey)
		}
		return nil
	}
}

func replay(ctx *fiber.Ctx, client redis.UniversalClient, redisKey string, logger log.Log) error {
	cached, err := client.Get(ctx.Context(), redisKey).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.Error("idempotency-middleware", err.Error(), "Replay", redisKey)
		return utils.ResponseError(httpError.NewServiceUnavailable(), ctx)
	}

	var stored storedResponse
	if err != nil || string(cached) == inFlightMarker || json.Unmarshal(cached, &stored) != nil {
		errObj := httpError.NewConflict()
		errObj.Message = "a request with this idempotency key is still in progress"
		ctx.Set(fiber.HeaderRetryAfter, "1")
		return utils.ResponseError(errObj, ctx)
	}

	ctx.Set(headerReplayed, "true")
	ctx.Set(fiber.HeaderContentType, stored.ContentType)
	return ctx.Status(stored.Status).Send(stored.Body)
}

func release(client redis.UniversalClient, redisKey string, logger log.Log) {
	if err := client.Del(context.Background(), redisKey).Err(); err != nil {
		logger.Error("idempotency-middleware", err.Error(), "Release", redisKey)
	}
}
