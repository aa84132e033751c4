package indicators

import (
	"github.com/shopspring/decimal"
)

// SMA 计算收盘价序列最后window个值的简单移动平均
func SMA(closes []decimal.Decimal, window int) (decimal.Decimal, error) {
	if window <= 0 {
		return decimal.Zero, ErrInvalidPeriod
	}
	if len(closes) < window {
		return decimal.Zero, ErrInsufficientData
	}

	recent := closes[len(closes)-window:]
	sum := decimal.Zero
	for _, price := range recent {
		sum = sum.Add(price)
	}
	return sum.Div(decimal.NewFromInt(int64(window))), nil
}

// GoldenCross 判断短均线是否刚刚上穿长均线（严格交叉）
// 条件：上一步 短均线 <= 长均线，当前 短均线 > 长均线
// 仅当前大于不算金叉，需要长均线窗口+1条数据
func GoldenCross(closes []decimal.Decimal, short, long int) (bool, error) {
	if short <= 0 || long <= 0 || short >= long {
		return false, ErrInvalidPeriod
	}
	if len(closes) < long+1 {
		return false, ErrInsufficientData
	}

	prev := closes[:len(closes)-1]
	prevShort, err := SMA(prev, short)
	if err != nil {
		return false, err
	}
	prevLong, err := SMA(prev, long)
	if err != nil {
		return false, err
	}
	curShort, err := SMA(closes, short)
	if err != nil {
		return false, err
	}
	curLong, err := SMA(closes, long)
	if err != nil {
		return false, err
	}

	return prevShort.LessThanOrEqual(prevLong) && curShort.GreaterThan(curLong), nil
}
