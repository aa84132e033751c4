package executor

import (
	"context"
	"time"

	"scantrader/src/cex"

	"github.com/shopspring/decimal"
)

// Intent 订单意图，由买卖循环生成、派发队列消费
type Intent struct {
	TradingPair cex.TradingPair
	Side        cex.OrderSide
	Type        cex.OrderType
	Notional    decimal.Decimal // 市价买入的计价货币金额
	Quantity    decimal.Decimal // 卖出数量
	Price       decimal.Decimal // 限价单价格
	CostBasis   decimal.Decimal // 卖出时的平均买入成本，用于统计盈亏
	Reason      string          // 触发原因，进日志和流水
}

// Fill 执行结果：订单回执加已实现盈亏
type Fill struct {
	Order  *cex.OrderResult
	PnL    decimal.Decimal
	PnLPct decimal.Decimal
}

// TradeRecord 成交流水记录
type TradeRecord struct {
	TradingPair string          `json:"trading_pair"`
	Side        string          `json:"side"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Notional    decimal.Decimal `json:"notional"`
	PnL         decimal.Decimal `json:"pnl"`
	PnLPct      decimal.Decimal `json:"pnl_pct"`
	Reason      string          `json:"reason"`
	TradeTime   time.Time       `json:"trade_time"`
}

// Journal 成交流水存储
type Journal interface {
	// SaveTrade 追加一条成交记录
	SaveTrade(ctx context.Context, record *TradeRecord) error
}

// Executor 订单执行器
type Executor interface {
	// Execute 校验并提交订单意图
	Execute(ctx context.Context, intent Intent) (*Fill, error)
}
