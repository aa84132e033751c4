package timeframes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeframe_GetDuration(t *testing.T) {
	tests := []struct {
		tf       Timeframe
		expected time.Duration
	}{
		{Timeframe1s, time.Second},
		{Timeframe1m, time.Minute},
		{Timeframe5m, 5 * time.Minute},
		{Timeframe1h, time.Hour},
		{Timeframe1d, 24 * time.Hour},
		{Timeframe1w, 7 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.tf.String(), func(t *testing.T) {
			d, err := tt.tf.GetDuration()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestTimeframe_GetDuration_Invalid(t *testing.T) {
	_, err := Timeframe("90s").GetDuration()
	assert.Error(t, err)
}

func TestParseTimeframe(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tf, err := ParseTimeframe("5m")
		require.NoError(t, err)
		assert.Equal(t, Timeframe5m, tf)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseTimeframe("2y")
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseTimeframe("")
		assert.Error(t, err)
	})
}

func TestGetAllTimeframes(t *testing.T) {
	all := GetAllTimeframes()
	assert.NotEmpty(t, all)
	for _, tf := range all {
		assert.True(t, tf.IsValid())
		// 币安API的间隔格式与枚举值一致
		assert.Equal(t, tf.String(), tf.GetBinanceInterval())
	}
}
