package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func defaultBands() BandTable {
	return BandTable{
		Bull:     Bands{TakeProfit: 0.0175, LimitExitRatio: 0.015},
		Bear:     Bands{TakeProfit: 0.02, StopLoss: 0.02},
		Sideways: Bands{TakeProfit: 0.02, StopLoss: 0.02},
	}
}

func TestSellEngine_FeeAdjustedProfit(t *testing.T) {
	// 成本100，手续费0.0005，bull止盈0.5% -> 阈值 100*1.0005*1.005 = 100.5503
	engine := NewSellEngine(0.0005, BandTable{
		Bull: Bands{TakeProfit: 0.005},
	}, 2)

	t.Run("price above threshold is profit", func(t *testing.T) {
		decision := engine.Evaluate(decimal.NewFromFloat(100.6), decimal.NewFromInt(100), TrendBull)
		assert.Equal(t, SellOutcomeProfit, decision.Outcome)
	})

	t.Run("price below threshold holds", func(t *testing.T) {
		decision := engine.Evaluate(decimal.NewFromFloat(100.5), decimal.NewFromInt(100), TrendBull)
		assert.Equal(t, SellOutcomeNone, decision.Outcome)
	})
}

func TestSellEngine_LimitExit(t *testing.T) {
	engine := NewSellEngine(0, defaultBands(), 2)

	t.Run("bull profit carries limit price", func(t *testing.T) {
		// 成本100，涨幅超过1.75% -> 限价挂在 100*1.015 = 101.50
		decision := engine.Evaluate(decimal.NewFromFloat(102), decimal.NewFromInt(100), TrendBull)
		assert.Equal(t, SellOutcomeProfit, decision.Outcome)
		assert.True(t, decision.LimitPrice.Equal(decimal.NewFromFloat(101.5)),
			"limit=%s", decision.LimitPrice)
	})

	t.Run("bear profit is market exit", func(t *testing.T) {
		decision := engine.Evaluate(decimal.NewFromFloat(103), decimal.NewFromInt(100), TrendBear)
		assert.Equal(t, SellOutcomeProfit, decision.Outcome)
		assert.True(t, decision.LimitPrice.IsZero())
	})
}

func TestSellEngine_StopLoss(t *testing.T) {
	engine := NewSellEngine(0, defaultBands(), 2)

	t.Run("bear drawdown triggers loss", func(t *testing.T) {
		decision := engine.Evaluate(decimal.NewFromFloat(97), decimal.NewFromInt(100), TrendBear)
		assert.Equal(t, SellOutcomeLoss, decision.Outcome)
	})

	t.Run("bull has no stop loss configured", func(t *testing.T) {
		// StopLoss为0表示该趋势不止损
		decision := engine.Evaluate(decimal.NewFromFloat(50), decimal.NewFromInt(100), TrendBull)
		assert.Equal(t, SellOutcomeNone, decision.Outcome)
	})

	t.Run("sideways uses its own bands", func(t *testing.T) {
		decision := engine.Evaluate(decimal.NewFromFloat(97), decimal.NewFromInt(100), TrendSideways)
		assert.Equal(t, SellOutcomeLoss, decision.Outcome)
	})
}

func TestSellEngine_Deterministic(t *testing.T) {
	// 相同输入重复判定必须产生相同结果（幂等，不产生重复下单）
	engine := NewSellEngine(0.0005, defaultBands(), 2)
	price := decimal.NewFromFloat(102.5)
	basis := decimal.NewFromInt(100)

	first := engine.Evaluate(price, basis, TrendBull)
	second := engine.Evaluate(price, basis, TrendBull)

	assert.Equal(t, first.Outcome, second.Outcome)
	assert.Equal(t, first.Reason, second.Reason)
	assert.True(t, first.LimitPrice.Equal(second.LimitPrice))
}
