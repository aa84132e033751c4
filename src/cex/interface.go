package cex

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TradingPair 标准化的交易对
type TradingPair struct {
	Base  string // 基础货币，如 BTC, ETH, DOGE
	Quote string // 计价货币（结算货币），如 USDT, KRW
}

// String 返回标准化的交易对字符串表示
func (tp TradingPair) String() string {
	return tp.Base + "/" + tp.Quote
}

// KlineData 标准化的K线数据，按时间升序排列，最后一条为"当前"K线
type KlineData struct {
	TradingPair TradingPair     `json:"trading_pair"`
	OpenTime    time.Time       `json:"open_time"`    // 开盘时间
	Open        decimal.Decimal `json:"open"`         // 开盘价
	High        decimal.Decimal `json:"high"`         // 最高价
	Low         decimal.Decimal `json:"low"`          // 最低价
	Close       decimal.Decimal `json:"close"`        // 收盘价
	Volume      decimal.Decimal `json:"volume"`       // 成交量
	CloseTime   time.Time       `json:"close_time"`   // 收盘时间
	QuoteVolume decimal.Decimal `json:"quote_volume"` // 成交额（计价货币）
}

// OrderSide 订单方向
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// OrderType 订单类型
type OrderType string

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

// BuyOrderRequest 买入订单请求
// 市价买入按 Notional（计价货币金额）成交，限价买入按 Price+Quantity
type BuyOrderRequest struct {
	TradingPair TradingPair     `json:"trading_pair"`
	Type        OrderType       `json:"type"`
	Notional    decimal.Decimal `json:"notional"`        // 市价单的计价货币金额
	Quantity    decimal.Decimal `json:"quantity"`        // 限价单的数量
	Price       decimal.Decimal `json:"price,omitempty"` // 限价单时需要
}

// SellOrderRequest 卖出订单请求
type SellOrderRequest struct {
	TradingPair TradingPair     `json:"trading_pair"`
	Type        OrderType       `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price,omitempty"` // 限价单时需要
}

// OrderResult 订单结果
type OrderResult struct {
	TradingPair   TradingPair     `json:"trading_pair"`
	OrderID       string          `json:"order_id"`
	ClientOrderID string          `json:"client_order_id"`
	Price         decimal.Decimal `json:"price"`
	Quantity      decimal.Decimal `json:"quantity"`
	Side          OrderSide       `json:"side"`
	Status        string          `json:"status"`
	Type          OrderType       `json:"type"`
	TransactTime  time.Time       `json:"transact_time"`
}

// AccountBalance 账户余额
type AccountBalance struct {
	Asset  string          `json:"asset"`
	Free   decimal.Decimal `json:"free"`
	Locked decimal.Decimal `json:"locked"`
}

// Position 持仓快照：持有数量与平均买入成本
// AvgBuyPrice 为零表示成本未知，决策层会将其过滤掉
type Position struct {
	TradingPair TradingPair     `json:"trading_pair"`
	Quantity    decimal.Decimal `json:"quantity"`
	AvgBuyPrice decimal.Decimal `json:"avg_buy_price"`
}

// MiniTicker 行情推送：某交易对的最新价格
type MiniTicker struct {
	TradingPair TradingPair     `json:"trading_pair"`
	Price       decimal.Decimal `json:"price"`
	Time        time.Time       `json:"time"`
}

// MiniTickerHandler 行情推送处理函数
type MiniTickerHandler func(ticker *MiniTicker)

// ErrHandler 行情流错误处理函数
type ErrHandler func(err error)

// Client 中心化交易所客户端接口
type Client interface {
	// GetName 获取交易所名称
	GetName() string

	// GetTradingFee 获取交易手续费率
	GetTradingFee() float64

	// GetTickers 获取以指定计价货币结算的全部可交易交易对
	GetTickers(ctx context.Context, quote string) ([]TradingPair, error)

	// GetKlines 获取K线数据，时间升序
	GetKlines(ctx context.Context, pair TradingPair, interval string, limit int) ([]*KlineData, error)

	// GetTickerPrice 获取当前价格
	GetTickerPrice(ctx context.Context, pair TradingPair) (decimal.Decimal, error)

	// GetBalance 获取指定资产的可用余额
	GetBalance(ctx context.Context, asset string) (decimal.Decimal, error)

	// GetPositions 获取当前持仓快照（剔除计价货币本身）
	GetPositions(ctx context.Context, quote string) ([]*Position, error)

	// Buy 买入
	Buy(ctx context.Context, order BuyOrderRequest) (*OrderResult, error)

	// Sell 卖出
	Sell(ctx context.Context, order SellOrderRequest) (*OrderResult, error)

	// TradingEnabled 是否开通真实下单权限，未开通时只做决策不下单
	TradingEnabled() bool

	// SubscribeMiniTickers 订阅全市场行情推送，只回调指定计价货币的交易对
	// 返回 done/stop 通道，与 go-binance 的 websocket 约定一致
	SubscribeMiniTickers(quote string, handler MiniTickerHandler, errHandler ErrHandler) (doneC, stopC chan struct{}, err error)

	// Ping 测试连接
	Ping(ctx context.Context) error
}
