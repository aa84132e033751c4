package indicators

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	t.Run("simple average", func(t *testing.T) {
		sma, err := SMA(closesFromFloats(1, 2, 3, 4), 4)
		require.NoError(t, err)
		assert.True(t, sma.Equal(decimal.NewFromFloat(2.5)))
	})

	t.Run("only last window counts", func(t *testing.T) {
		sma, err := SMA(closesFromFloats(1000, 2, 4), 2)
		require.NoError(t, err)
		assert.True(t, sma.Equal(decimal.NewFromInt(3)))
	})

	t.Run("insufficient data", func(t *testing.T) {
		_, err := SMA(closesFromFloats(1, 2), 3)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("invalid window", func(t *testing.T) {
		_, err := SMA(closesFromFloats(1, 2), 0)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})
}

func TestGoldenCross(t *testing.T) {
	t.Run("strict crossover detected", func(t *testing.T) {
		// 前一步短均线(2) <= 长均线(3)，当前短均线 > 长均线
		// closes: 10,10,10,14 -> prev: [10,10,10] short=10 long=10(相等允许)
		// cur: [10,10,14] short=(10+14)/2=12 long=(10+10+14)/3=11.33
		crossed, err := GoldenCross(closesFromFloats(10, 10, 10, 14), 2, 3)
		require.NoError(t, err)
		assert.True(t, crossed)
	})

	t.Run("already above is not a cross", func(t *testing.T) {
		// 短均线持续在长均线上方，只有当前排序不算金叉
		crossed, err := GoldenCross(closesFromFloats(10, 11, 13, 15, 17), 2, 3)
		require.NoError(t, err)
		assert.False(t, crossed)
	})

	t.Run("downtrend no cross", func(t *testing.T) {
		crossed, err := GoldenCross(closesFromFloats(17, 15, 13, 11, 10), 2, 3)
		require.NoError(t, err)
		assert.False(t, crossed)
	})

	t.Run("insufficient data", func(t *testing.T) {
		// 需要long+1条
		_, err := GoldenCross(closesFromFloats(1, 2, 3), 2, 3)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("invalid windows", func(t *testing.T) {
		_, err := GoldenCross(closesFromFloats(1, 2, 3, 4), 3, 2)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})
}
