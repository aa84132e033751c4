package indicators

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closesFromFloats 构造收盘价序列
func closesFromFloats(values ...float64) []decimal.Decimal {
	closes := make([]decimal.Decimal, len(values))
	for i, v := range values {
		closes[i] = decimal.NewFromFloat(v)
	}
	return closes
}

func TestRSI_Basic(t *testing.T) {
	t.Run("mixed gains and losses", func(t *testing.T) {
		// 两涨一跌：涨2，跌1 -> avgGain=2/3, avgLoss=1/3, RS=2, RSI=100-100/3
		closes := closesFromFloats(100, 101, 100, 101)
		rsi, err := RSI(closes, 3)
		require.NoError(t, err)

		expected := decimal.NewFromInt(100).Sub(decimal.NewFromInt(100).Div(decimal.NewFromInt(3)))
		assert.True(t, rsi.Sub(expected).Abs().LessThan(decimal.NewFromFloat(0.0001)),
			"rsi=%s expected=%s", rsi, expected)
	})

	t.Run("all gains saturates to 100", func(t *testing.T) {
		closes := closesFromFloats(100, 101, 102, 103)
		rsi, err := RSI(closes, 3)
		require.NoError(t, err)
		assert.True(t, rsi.Equal(decimal.NewFromInt(100)))
	})

	t.Run("flat closes are neutral 50", func(t *testing.T) {
		closes := closesFromFloats(100, 100, 100, 100)
		rsi, err := RSI(closes, 3)
		require.NoError(t, err)
		assert.True(t, rsi.Equal(decimal.NewFromInt(50)))
	})

	t.Run("all losses is 0", func(t *testing.T) {
		closes := closesFromFloats(103, 102, 101, 100)
		rsi, err := RSI(closes, 3)
		require.NoError(t, err)
		assert.True(t, rsi.IsZero(), "rsi=%s", rsi)
	})
}

func TestRSI_ScenarioBand(t *testing.T) {
	// 收盘序列 [100,100,100,100,101]，RSI(2)：最近2个差值是0和+1
	// avgGain=0.5, avgLoss=0 -> 饱和到100
	closes := closesFromFloats(100, 100, 100, 100, 101)
	rsi, err := RSI(closes, 2)
	require.NoError(t, err)
	assert.True(t, rsi.Equal(decimal.NewFromInt(100)))
}

func TestRSI_InsufficientData(t *testing.T) {
	tests := []struct {
		name   string
		closes []decimal.Decimal
		period int
	}{
		{"empty", nil, 14},
		{"one close", closesFromFloats(100), 14},
		{"exactly period", closesFromFloats(1, 2, 3), 3}, // 需要period+1条
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RSI(tt.closes, tt.period)
			assert.ErrorIs(t, err, ErrInsufficientData)
		})
	}
}

func TestRSI_InvalidPeriod(t *testing.T) {
	_, err := RSI(closesFromFloats(1, 2, 3), 0)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = RSI(closesFromFloats(1, 2, 3), -1)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
