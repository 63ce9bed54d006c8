package usecase

import (
	"context"
	"fmt"
	"time"

	"carpool-service/src/internal/model"
	"carpool-service/src/internal/repository"
	"carpool-service/src/pkg/commission"
	httpError "carpool-service/src/pkg/http-error"
	"carpool-service/src/pkg/log"
	"carpool-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CommissionUseCase struct {
	Log               log.Log
	Validate          *validator.Validate
	SettingRepository repository.SettingStore
	Cache             repository.CommissionCache
	DefaultRate       commission.Rate
	Notifier          *ChangeNotifier
	Now               func() time.Time
}

func NewCommissionUseCase(
	logger log.Log,
	validate *validator.Validate,
	settingRepository repository.SettingStore,
	cache repository.CommissionCache,
	defaultRate commission.Rate,
	notifier *ChangeNotifier,
) *CommissionUseCase {
	return &CommissionUseCase{
		Log:               logger,
		Validate:          validate,
		SettingRepository: settingRepository,
		Cache:             cache,
		DefaultRate:       defaultRate,
		Notifier:          notifier,
		Now:               time.Now,
	}
}

// CurrentRate reads through the cache. A cache outage falls back to MySQL and
// an unset rate falls back to the configured default.
func (c *CommissionUseCase) CurrentRate(ctx context.Context) (commission.Rate, error) {
	if c.Cache != nil {
		rate, found, err := c.Cache.Get(ctx)
		if err != nil {
			c.Log.Error("commission-usecase", err.Error(), "CurrentRate", "cache")
		} else if found {
			return rate, nil
		}
	}

	rate, found, err := c.SettingRepository.GetCommissionRate(ctx)
	if err != nil {
		return 0, err
	}
	if !found {
		rate = c.DefaultRate
	}

	if c.Cache != nil {
		if err := c.Cache.Fill(ctx, rate); err != nil {
			c.Log.Error("commission-usecase", err.Error(), "CurrentRate", "cache")
		}
	}
	return rate, nil
}

func (c *CommissionUseCase) GetRate(ctx context.Context) utils.Result {
	var result utils.Result

	rate, err := c.CurrentRate(ctx)
	if err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("commission-usecase", err.Error(), "GetRate", "")
		return result
	}
	result.Data = model.CommissionRateResponse{Rate: rate.Float64()}
	return result
}

func (c *CommissionUseCase) UpdateRate(ctx context.Context, request *model.UpdateCommissionRateRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("commission-usecase", errObj.Message, "UpdateRate", utils.ConvertString(request))
		return result
	}
	if !request.IsAdmin {
		errObj := httpError.NewForbidden()
		errObj.Message = "only administrators can change the commission rate"
		result.Error = errObj
		c.Log.Error("commission-usecase", errObj.Message, "UpdateRate", request.UserID)
		return result
	}

	rate, err := commission.ParseRate(*request.Rate)
	if err != nil {
		result.Error = toHTTPError(err)
		return result
	}

	now := c.Now()
	if err := c.SettingRepository.SaveCommissionRate(ctx, rate, request.UserID, now); err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("commission-usecase", err.Error(), "UpdateRate", request.UserID)
		return result
	}

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, rate); err != nil {
			c.Log.Error("commission-usecase", err.Error(), "UpdateRate", "cache")
			if err := c.Cache.Invalidate(ctx); err != nil {
				c.Log.Error("commission-usecase", err.Error(), "UpdateRate", "cache")
			}
		}
	}

	c.Log.Info("commission-usecase", "commission rate updated", "UpdateRate", fmt.Sprintf("%.6f", rate.Float64()))
	c.Notifier.CommissionChanged(&model.CommissionEvent{
		EventID:    uuid.NewString(),
		Type:       model.EventCommissionRateChanged,
		Rate:       rate.Float64(),
		ChangedBy:  request.UserID,
		OccurredAt: now,
	})

	result.Data = model.CommissionRateResponse{Rate: rate.Float64()}
	return result
}

func (c *CommissionUseCase) Quote(ctx context.Context, request *model.CommissionQuoteRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	price, err := commission.AmountFromFloat(request.Price)
	if err != nil {
		result.Error = toHTTPError(err)
		return result
	}
	rate, err := c.CurrentRate(ctx)
	if err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("commission-usecase", err.Error(), "Quote", "")
		return result
	}
	split, err := commission.Split(price, rate)
	if err != nil {
		result.Error = toHTTPError(err)
		return result
	}

	result.Data = model.CommissionQuoteResponse{
		Price:        split.Total.Float64(),
		Rate:         rate.Float64(),
		Commission:   split.Commission.Float64(),
		DriverAmount: split.DriverAmount.Float64(),
	}
	return result
}
