package indicators

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)
var fifty = decimal.NewFromInt(50)

// RSI 计算相对强弱指标，滚动均值口径
// 取最近period个涨跌差，平均涨幅/平均跌幅得到RS，RSI = 100 - 100/(1+RS)
// 平均跌幅为零的饱和规则（必须显式定义，不能让NaN流进决策逻辑）：
//   - 窗口内只有上涨：RSI = 100
//   - 窗口内完全无波动：RSI = 50（中性）
// 需要period+1条收盘价，不足返回ErrInsufficientData
func RSI(closes []decimal.Decimal, period int) (decimal.Decimal, error) {
	if period <= 0 {
		return decimal.Zero, ErrInvalidPeriod
	}
	if len(closes) < period+1 {
		return decimal.Zero, ErrInsufficientData
	}

	recent := closes[len(closes)-period-1:]
	gainSum := decimal.Zero
	lossSum := decimal.Zero
	for i := 1; i < len(recent); i++ {
		delta := recent[i].Sub(recent[i-1])
		if delta.IsPositive() {
			gainSum = gainSum.Add(delta)
		} else {
			lossSum = lossSum.Add(delta.Neg())
		}
	}

	if lossSum.IsZero() {
		if gainSum.IsZero() {
			return fifty, nil
		}
		return hundred, nil
	}

	periods := decimal.NewFromInt(int64(period))
	avgGain := gainSum.Div(periods)
	avgLoss := lossSum.Div(periods)

	rs := avgGain.Div(avgLoss)
	one := decimal.NewFromInt(1)
	return hundred.Sub(hundred.Div(one.Add(rs))), nil
}
