package mocks

import (
	"context"
	"time"

	"carpool-service/src/pkg/commission"

	"github.com/stretchr/testify/mock"
)

type SettingStore struct {
	mock.Mock
}

func NewSettingStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *SettingStore {
	m := &SettingStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *SettingStore) GetCommissionRate(ctx context.Context) (commission.Rate, bool, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(commission.Rate), ret.Bool(1), ret.Error(2)
}

func (_m *SettingStore) SaveCommissionRate(ctx context.Context, rate commission.Rate, updatedBy string, now time.Time) error {
	ret := _m.Called(ctx, rate, updatedBy, now)
	return ret.Error(0)
}
