package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SellOutcome 卖出判定结果
type SellOutcome string

const (
	SellOutcomeNone   SellOutcome = "NONE"   // 继续持有
	SellOutcomeProfit SellOutcome = "PROFIT" // 达到止盈
	SellOutcomeLoss   SellOutcome = "LOSS"   // 触发止损
)

// SellDecision 卖出决策
// Profit路径且配置了LimitExitRatio时给出确定的限价，其余情况限价为零表示市价
type SellDecision struct {
	Outcome    SellOutcome
	Reason     string
	LimitPrice decimal.Decimal
}

// Bands 单个趋势下的卖出带
// StopLoss为0表示该趋势不止损，LimitExitRatio为0表示止盈走市价单
type Bands struct {
	TakeProfit     float64 // 止盈触发涨幅
	StopLoss       float64 // 止损触发跌幅
	LimitExitRatio float64 // 止盈限价单的目标涨幅
}

// BandTable 按趋势索引的卖出带
type BandTable struct {
	Bull     Bands
	Bear     Bands
	Sideways Bands
}

// ForTrend 获取指定趋势下的卖出带
func (t *BandTable) ForTrend(trend Trend) Bands {
	switch trend {
	case TrendBull:
		return t.Bull
	case TrendBear:
		return t.Bear
	default:
		return t.Sideways
	}
}

// SellEngine 卖出决策引擎
// 成本按手续费上调后再与趋势对应的带比较，对相同输入的判定是确定性的
type SellEngine struct {
	fee           decimal.Decimal
	bands         BandTable
	priceDecimals int32
}

// NewSellEngine 创建卖出决策引擎
func NewSellEngine(fee float64, bands BandTable, priceDecimals int32) *SellEngine {
	return &SellEngine{
		fee:           decimal.NewFromFloat(fee),
		bands:         bands,
		priceDecimals: priceDecimals,
	}
}

// Evaluate 判定持仓在当前价格与趋势下的卖出结果
// 只会被非灰尘、成本非零的持仓调用；重复调用同样输入产生同样结果（幂等）
func (e *SellEngine) Evaluate(currentPrice, costBasis decimal.Decimal, trend Trend) *SellDecision {
	one := decimal.NewFromInt(1)
	adjustedBasis := costBasis.Mul(one.Add(e.fee))
	bands := e.bands.ForTrend(trend)

	if bands.TakeProfit > 0 {
		threshold := adjustedBasis.Mul(one.Add(decimal.NewFromFloat(bands.TakeProfit)))
		if currentPrice.GreaterThanOrEqual(threshold) {
			pnlPct := currentPrice.Sub(costBasis).Div(costBasis).Mul(decimal.NewFromInt(100))
			decision := &SellDecision{
				Outcome: SellOutcomeProfit,
				Reason:  fmt.Sprintf("take profit (%s): +%s%%", trend, pnlPct.Round(2)),
			}
			if bands.LimitExitRatio > 0 {
				// 限价挂在成本上方固定比例处，保证不追着行情卖
				target := costBasis.Mul(one.Add(decimal.NewFromFloat(bands.LimitExitRatio)))
				decision.LimitPrice = target.Round(e.priceDecimals)
			}
			return decision
		}
	}

	if bands.StopLoss > 0 {
		threshold := adjustedBasis.Mul(one.Sub(decimal.NewFromFloat(bands.StopLoss)))
		if currentPrice.LessThanOrEqual(threshold) {
			pnlPct := currentPrice.Sub(costBasis).Div(costBasis).Mul(decimal.NewFromInt(100))
			return &SellDecision{
				Outcome: SellOutcomeLoss,
				Reason:  fmt.Sprintf("stop loss (%s): %s%%", trend, pnlPct.Round(2)),
			}
		}
	}

	return &SellDecision{Outcome: SellOutcomeNone}
}
