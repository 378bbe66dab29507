package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/cache"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVelocityEstimator_Estimate(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	sales := new(mockSalesRepository)
	sales.On("SumSoldQuantity", mock.Anything, int64(7), int64(3), now.AddDate(0, 0, -30)).Return(300, nil)
	sales.On("SumSoldQuantity", mock.Anything, int64(7), int64(3), now.AddDate(0, 0, -7)).Return(21, nil)

	estimator := NewVelocityEstimator(sales, nil, time.Hour, 30)
	estimator.now = func() time.Time { return now }

	got, err := estimator.Estimate(context.Background(), 7, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, got.WindowDays)
	assert.InDelta(t, 10.0, got.UnitsPerDay, 1e-9)

	got, err = estimator.Estimate(context.Background(), 7, 3, 7)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got.UnitsPerDay, 1e-9)
}

func TestVelocityEstimator_NoSalesIsZero(t *testing.T) {
	sales := new(mockSalesRepository)
	sales.On("SumSoldQuantity", mock.Anything, int64(7), int64(3), mock.Anything).Return(0, nil)

	got, err := NewVelocityEstimator(sales, nil, time.Hour, 30).Estimate(context.Background(), 7, 3, 0)
	require.NoError(t, err)
	assert.Zero(t, got.UnitsPerDay)
}

func TestVelocityEstimator_Error(t *testing.T) {
	sales := new(mockSalesRepository)
	sales.On("SumSoldQuantity", mock.Anything, int64(7), int64(3), mock.Anything).Return(0, errors.New("timeout"))

	_, err := NewVelocityEstimator(sales, nil, time.Hour, 30).Estimate(context.Background(), 7, 3, 0)
	assert.ErrorContains(t, err, "velocity for product 7")
}

func TestVelocityEstimator_CachedPerWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.NewRedisTagCache(client, "test", time.Hour)

	sales := new(mockSalesRepository)
	sales.On("SumSoldQuantity", mock.Anything, int64(7), int64(3), mock.Anything).Return(60, nil)

	estimator := NewVelocityEstimator(sales, c, time.Hour, 30)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := estimator.Estimate(ctx, 7, 3, 30)
		require.NoError(t, err)
	}
	sales.AssertNumberOfCalls(t, "SumSoldQuantity", 1)

	_, err := estimator.Estimate(ctx, 7, 3, 14)
	require.NoError(t, err)
	sales.AssertNumberOfCalls(t, "SumSoldQuantity", 2)

	mr.FastForward(2 * time.Hour)
	_, err = estimator.Estimate(ctx, 7, 3, 30)
	require.NoError(t, err)
	sales.AssertNumberOfCalls(t, "SumSoldQuantity", 3)
}

func TestVelocityEstimator_ZeroTTLStillCaches(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.NewRedisTagCache(client, "test", time.Hour)

	sales := new(mockSalesRepository)
	sales.On("SumSoldQuantity", mock.Anything, int64(7), int64(3), mock.Anything).Return(60, nil)

	estimator := NewVelocityEstimator(sales, c, 0, 30)
	assert.Equal(t, cache.DefaultTTLs().Velocity, estimator.ttl)
	for i := 0; i < 2; i++ {
		_, err := estimator.Estimate(context.Background(), 7, 3, 30)
		require.NoError(t, err)
	}
	sales.AssertNumberOfCalls(t, "SumSoldQuantity", 1)
}
