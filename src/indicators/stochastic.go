package indicators

import (
	"scantrader/src/cex"

	"github.com/shopspring/decimal"
)

// StochasticResult 随机指标计算结果
type StochasticResult struct {
	K decimal.Decimal // %K 快线
	D decimal.Decimal // %D 慢线（%K的移动平均）
}

// Stochastic 计算随机指标 %K/%D
// %K = 100 * (close - 窗口最低价) / (窗口最高价 - 窗口最低价)
// %D = 最近dPeriod个%K的均值
// 窗口内最高价等于最低价时（横盘无波动）%K定义为50，不能让除零传播
// 需要kPeriod+dPeriod-1条K线，不足返回ErrInsufficientData
func Stochastic(klines []*cex.KlineData, kPeriod, dPeriod int) (*StochasticResult, error) {
	if kPeriod <= 0 || dPeriod <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(klines) < kPeriod+dPeriod-1 {
		return nil, ErrInsufficientData
	}

	// 连续计算最近dPeriod个%K
	kValues := make([]decimal.Decimal, 0, dPeriod)
	for offset := dPeriod - 1; offset >= 0; offset-- {
		end := len(klines) - offset
		window := klines[end-kPeriod : end]
		kValues = append(kValues, percentK(window))
	}

	dSum := decimal.Zero
	for _, k := range kValues {
		dSum = dSum.Add(k)
	}

	return &StochasticResult{
		K: kValues[len(kValues)-1],
		D: dSum.Div(decimal.NewFromInt(int64(dPeriod))),
	}, nil
}

// percentK 计算窗口内最后一条K线的%K值
func percentK(window []*cex.KlineData) decimal.Decimal {
	lowest := window[0].Low
	highest := window[0].High
	for _, k := range window[1:] {
		if k.Low.LessThan(lowest) {
			lowest = k.Low
		}
		if k.High.GreaterThan(highest) {
			highest = k.High
		}
	}

	span := highest.Sub(lowest)
	if span.IsZero() {
		return fifty
	}

	close := window[len(window)-1].Close
	return hundred.Mul(close.Sub(lowest)).Div(span)
}
