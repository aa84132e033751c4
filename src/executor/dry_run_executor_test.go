package executor

import (
	"context"
	"testing"

	"scantrader/src/cex"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDryRunExecutor_NoRealOrders(t *testing.T) {
	exec := NewDryRunExecutor()

	fill, err := exec.Execute(context.Background(), Intent{
		TradingPair: pairOf("BTC"),
		Side:        cex.OrderSideBuy,
		Type:        cex.OrderTypeMarket,
		Notional:    decimal.NewFromInt(5500),
		Reason:      "sideways trend, rsi in band",
	})
	require.NoError(t, err)

	assert.Equal(t, "DRY_RUN", fill.Order.Status)
	assert.Equal(t, pairOf("BTC"), fill.Order.TradingPair)
	assert.Equal(t, cex.OrderSideBuy, fill.Order.Side)
}

func TestDryRunExecutor_SellFill(t *testing.T) {
	exec := NewDryRunExecutor()

	fill, err := exec.Execute(context.Background(), Intent{
		TradingPair: pairOf("ETH"),
		Side:        cex.OrderSideSell,
		Type:        cex.OrderTypeLimit,
		Quantity:    decimal.NewFromInt(2),
		Price:       decimal.NewFromFloat(101.5),
	})
	require.NoError(t, err)

	assert.Equal(t, "DRY_RUN", fill.Order.Status)
	assert.True(t, fill.Order.Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, fill.Order.Price.Equal(decimal.NewFromFloat(101.5)))
}
