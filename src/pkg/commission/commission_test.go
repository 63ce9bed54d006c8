package commission

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRate(t *testing.T, r float64) Rate {
	t.Helper()
	rate, err := ParseRate(r)
	require.NoError(t, err)
	return rate
}

func mustAmount(t *testing.T, v float64) Amount {
	t.Helper()
	a, err := AmountFromFloat(v)
	require.NoError(t, err)
	return a
}

func TestSplitListedPrice(t *testing.T) {
	b, err := Split(mustAmount(t, 1000), mustRate(t, 0.16))
	require.NoError(t, err)

	assert.Equal(t, 160.00, b.Commission.Float64())
	assert.Equal(t, 840.00, b.DriverAmount.Float64())
	assert.Equal(t, 1000.00, b.Total.Float64())
}

func TestSplitNegotiatedPrice(t *testing.T) {
	b, err := Split(mustAmount(t, 900), mustRate(t, 0.16))
	require.NoError(t, err)

	assert.Equal(t, "144.00", b.Commission.String())
	assert.Equal(t, "756.00", b.DriverAmount.String())
}

func TestSplitRoundsHalfUpAndGivesRemainderToDriver(t *testing.T) {
	// 0.05 * 0.10 = 0.005 -> commission rounds up to 0.01
	b, err := Split(mustAmount(t, 0.05), mustRate(t, 0.10))
	require.NoError(t, err)
	assert.Equal(t, Amount(1), b.Commission)
	assert.Equal(t, Amount(4), b.DriverAmount)

	// 0.33 * 0.16 = 0.0528 -> 0.05
	b, err = Split(mustAmount(t, 0.33), mustRate(t, 0.16))
	require.NoError(t, err)
	assert.Equal(t, Amount(5), b.Commission)
	assert.Equal(t, Amount(28), b.DriverAmount)
}

func TestSplitZeroRateAndZeroPrice(t *testing.T) {
	b, err := Split(mustAmount(t, 250), 0)
	require.NoError(t, err)
	assert.Equal(t, Amount(0), b.Commission)
	assert.Equal(t, Amount(25000), b.DriverAmount)

	b, err = Split(0, mustRate(t, 0.2))
	require.NoError(t, err)
	assert.Zero(t, b.Commission)
	assert.Zero(t, b.DriverAmount)
}

func TestSplitRejectsInvalidInput(t *testing.T) {
	_, err := Split(-1, mustRate(t, 0.16))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Split(100, Rate(ppmScale))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Split(100, Rate(-1))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseRateBounds(t *testing.T) {
	for _, r := range []float64{-0.01, 1, 1.5} {
		_, err := ParseRate(r)
		assert.ErrorIs(t, err, ErrInvalidArgument, "rate %v", r)
	}
	rate, err := ParseRate(0.999999)
	require.NoError(t, err)
	assert.Equal(t, Rate(999999), rate)
	assert.InDelta(t, 0.16, mustRate(t, 0.16).Float64(), 1e-9)
}

func TestAmountFromFloat(t *testing.T) {
	assert.Equal(t, Amount(90050), mustAmount(t, 900.5))
	assert.Equal(t, Amount(1), mustAmount(t, 0.005))
	assert.Equal(t, Amount(0), mustAmount(t, 0.004))

	_, err := AmountFromFloat(-3)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAmountFromFloatRejectsHugeValues(t *testing.T) {
	a, err := AmountFromFloat(MaxUnits)
	require.NoError(t, err)
	assert.Equal(t, Amount(MaxUnits*MinorUnitsPerUnit), a)

	for _, v := range []float64{MaxUnits + 0.01, 5e16, 1e300} {
		_, err := AmountFromFloat(v)
		assert.ErrorIs(t, err, ErrInvalidArgument, "value %v", v)
	}
}

func TestSplitAlwaysSumsToPrice(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10000; i++ {
		price := Amount(rng.Int63n(1_000_000_000))
		rate := Rate(rng.Int63n(ppmScale))

		b, err := Split(price, rate)
		require.NoError(t, err)
		require.Equal(t, price, b.Commission+b.DriverAmount, "price=%d rate=%d", price, rate)
		require.GreaterOrEqual(t, int64(b.Commission), int64(0))
		require.GreaterOrEqual(t, int64(b.DriverAmount), int64(0))

		exact := float64(price) * float64(rate) / ppmScale
		require.InDelta(t, exact, float64(b.Commission), 0.5+1e-6)
	}
}
