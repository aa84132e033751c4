package strategy

import (
	"scantrader/src/cex"
	"scantrader/src/indicators"

	"github.com/shopspring/decimal"
)

// Trend 市场趋势
type Trend string

const (
	TrendBull     Trend = "bull"     // 上升趋势
	TrendBear     Trend = "bear"     // 下降趋势
	TrendSideways Trend = "sideways" // 横盘
)

// Closes 提取K线序列的收盘价
func Closes(klines []*cex.KlineData) []decimal.Decimal {
	closes := make([]decimal.Decimal, len(klines))
	for i, k := range klines {
		closes[i] = k.Close
	}
	return closes
}

// Classify 通过短长均线对比判断市场趋势
// 短均线 > 长均线为bull，< 为bear，相等为sideways
// 数据为空或不足时保守地返回sideways，绝不向上抛错误
func Classify(klines []*cex.KlineData, short, long int) Trend {
	if len(klines) == 0 {
		return TrendSideways
	}

	closes := Closes(klines)
	shortMA, err := indicators.SMA(closes, short)
	if err != nil {
		return TrendSideways
	}
	longMA, err := indicators.SMA(closes, long)
	if err != nil {
		return TrendSideways
	}

	switch {
	case shortMA.GreaterThan(longMA):
		return TrendBull
	case shortMA.LessThan(longMA):
		return TrendBear
	default:
		return TrendSideways
	}
}
