package strategy

import (
	"errors"
	"fmt"

	"scantrader/src/cex"
	"scantrader/src/indicators"

	"github.com/shopspring/decimal"
)

// BuyRule 单个趋势下的买入规则
// RSI区间过滤"既非超卖崩盘也非超买冲顶"，可叠加金叉与随机指标条件
type BuyRule struct {
	RSIPeriod        int     // RSI计算周期
	RSIMin           float64 // RSI下限(含)
	RSIMax           float64 // RSI上限(不含)
	GoldenCrossShort int     // 金叉短均线窗口
	GoldenCrossLong  int     // 金叉长均线窗口
	RequireGolden    bool    // 是否要求金叉
	RequireStochUp   bool    // 是否要求%K大于%D
	StochKMax        float64 // %K上限，0表示不限制
	StochKPeriod     int     // 随机指标%K周期
	StochDPeriod     int     // 随机指标%D周期
}

// RuleTable 按趋势索引的买入规则表
type RuleTable struct {
	Bull     *BuyRule
	Bear     *BuyRule
	Sideways *BuyRule
}

// ForTrend 获取指定趋势下的买入规则，未配置返回nil（该趋势不买入）
func (t *RuleTable) ForTrend(trend Trend) *BuyRule {
	switch trend {
	case TrendBull:
		return t.Bull
	case TrendBear:
		return t.Bear
	default:
		return t.Sideways
	}
}

// Evaluate 判断K线序列是否满足买入条件
// 指标数据不足视为"不满足"而不是错误：短历史的新币种跳过即可
func (r *BuyRule) Evaluate(klines []*cex.KlineData) (bool, string, error) {
	closes := Closes(klines)

	rsi, err := indicators.RSI(closes, r.RSIPeriod)
	if err != nil {
		if errors.Is(err, indicators.ErrInsufficientData) {
			return false, "", nil
		}
		return false, "", err
	}

	rsiMin := decimal.NewFromFloat(r.RSIMin)
	rsiMax := decimal.NewFromFloat(r.RSIMax)
	if rsi.LessThan(rsiMin) || rsi.GreaterThanOrEqual(rsiMax) {
		return false, "", nil
	}

	if r.RequireGolden {
		crossed, err := indicators.GoldenCross(closes, r.GoldenCrossShort, r.GoldenCrossLong)
		if err != nil {
			if errors.Is(err, indicators.ErrInsufficientData) {
				return false, "", nil
			}
			return false, "", err
		}
		if !crossed {
			return false, "", nil
		}
	}

	if r.RequireStochUp || r.StochKMax > 0 {
		stoch, err := indicators.Stochastic(klines, r.StochKPeriod, r.StochDPeriod)
		if err != nil {
			if errors.Is(err, indicators.ErrInsufficientData) {
				return false, "", nil
			}
			return false, "", err
		}
		if r.RequireStochUp && !stoch.K.GreaterThan(stoch.D) {
			return false, "", nil
		}
		if r.StochKMax > 0 && stoch.K.GreaterThanOrEqual(decimal.NewFromFloat(r.StochKMax)) {
			return false, "", nil
		}
	}

	reason := fmt.Sprintf("rsi=%s in [%.0f,%.0f)", rsi.Round(2), r.RSIMin, r.RSIMax)
	if r.RequireGolden {
		reason += fmt.Sprintf(" golden_cross(%d/%d)", r.GoldenCrossShort, r.GoldenCrossLong)
	}
	return true, reason, nil
}
