// Package cextest 提供用于测试的CEX客户端mock
package cextest

import (
	"context"
	"errors"
	"sync"
	"time"

	"scantrader/src/cex"

	"github.com/shopspring/decimal"
)

// ErrMockFetch FailPairs 中的交易对返回的错误
var ErrMockFetch = errors.New("mock fetch error")

// MockClient 用于测试的CEX客户端
// 所有字段都在调用前设置，调用后可读取记录到的订单
type MockClient struct {
	mu sync.Mutex

	// K线：KlinesByInterval 按 "BTC/USDT@5m" 查找，优先于 KlinesByPair
	KlinesByPair     map[string][]*cex.KlineData
	KlinesByInterval map[string][]*cex.KlineData
	FailPairs        map[string]bool
	CallCounts       map[string]int

	// 交易对全集
	Tickers    []cex.TradingPair
	TickersErr error

	// 价格
	Prices     map[string]decimal.Decimal
	PriceErr   error
	PriceCalls map[string]int

	// 账户：BalanceErrs大于零时GetBalance先返回该次数的错误再恢复正常
	Balances    map[string]decimal.Decimal
	BalanceErrs int
	Positions   []*cex.Position

	// 订单
	BuyOrders  []cex.BuyOrderRequest
	SellOrders []cex.SellOrderRequest
	BuyErr     error
	SellErr    error
	BuyResult  *cex.OrderResult
	SellResult *cex.OrderResult

	// 行情推送：Start后测试可通过该handler注入ticker
	TickerHandler cex.MiniTickerHandler

	Fee float64

	// TradingOff 设为true模拟未开通交易权限的客户端
	TradingOff bool
}

// NewMockClient 创建mock客户端
func NewMockClient() *MockClient {
	return &MockClient{
		KlinesByPair:     make(map[string][]*cex.KlineData),
		KlinesByInterval: make(map[string][]*cex.KlineData),
		FailPairs:        make(map[string]bool),
		CallCounts:       make(map[string]int),
		Prices:           make(map[string]decimal.Decimal),
		PriceCalls:       make(map[string]int),
		Balances:         make(map[string]decimal.Decimal),
		Fee:              0.001,
	}
}

// SetBalance 并发安全地设置余额，给运行中的循环测试用
func (m *MockClient) SetBalance(asset string, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Balances[asset] = balance
}

// SetKlines 设置某交易对在某K线周期下的数据
func (m *MockClient) SetKlines(pair cex.TradingPair, interval string, klines []*cex.KlineData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.KlinesByInterval[pair.String()+"@"+interval] = klines
}

// Calls 返回某交易对的K线抓取次数
func (m *MockClient) Calls(pair cex.TradingPair) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCounts[pair.String()]
}

func (m *MockClient) GetName() string { return "mock" }

func (m *MockClient) GetTradingFee() float64 { return m.Fee }

func (m *MockClient) GetTickers(ctx context.Context, quote string) ([]cex.TradingPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TickersErr != nil {
		return nil, m.TickersErr
	}
	return m.Tickers, nil
}

func (m *MockClient) GetKlines(ctx context.Context, pair cex.TradingPair, interval string, limit int) ([]*cex.KlineData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCounts[pair.String()]++
	if m.FailPairs[pair.String()] {
		return nil, ErrMockFetch
	}
	if klines, ok := m.KlinesByInterval[pair.String()+"@"+interval]; ok {
		return klines, nil
	}
	return m.KlinesByPair[pair.String()], nil
}

func (m *MockClient) GetTickerPrice(ctx context.Context, pair cex.TradingPair) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PriceCalls[pair.String()]++
	if m.PriceErr != nil {
		return decimal.Zero, m.PriceErr
	}
	return m.Prices[pair.String()], nil
}

func (m *MockClient) GetBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BalanceErrs > 0 {
		m.BalanceErrs--
		return decimal.Zero, ErrMockFetch
	}
	return m.Balances[asset], nil
}

func (m *MockClient) GetPositions(ctx context.Context, quote string) ([]*cex.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Positions, nil
}

func (m *MockClient) Buy(ctx context.Context, order cex.BuyOrderRequest) (*cex.OrderResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BuyErr != nil {
		return nil, m.BuyErr
	}
	m.BuyOrders = append(m.BuyOrders, order)
	if m.BuyResult != nil {
		return m.BuyResult, nil
	}
	return &cex.OrderResult{
		TradingPair:  order.TradingPair,
		Side:         cex.OrderSideBuy,
		Type:         order.Type,
		Status:       "FILLED",
		TransactTime: time.Now(),
	}, nil
}

func (m *MockClient) Sell(ctx context.Context, order cex.SellOrderRequest) (*cex.OrderResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SellErr != nil {
		return nil, m.SellErr
	}
	m.SellOrders = append(m.SellOrders, order)
	if m.SellResult != nil {
		return m.SellResult, nil
	}
	return &cex.OrderResult{
		TradingPair:  order.TradingPair,
		Side:         cex.OrderSideSell,
		Type:         order.Type,
		Quantity:     order.Quantity,
		Price:        order.Price,
		Status:       "FILLED",
		TransactTime: time.Now(),
	}, nil
}

func (m *MockClient) SubscribeMiniTickers(quote string, handler cex.MiniTickerHandler, errHandler cex.ErrHandler) (chan struct{}, chan struct{}, error) {
	m.mu.Lock()
	m.TickerHandler = handler
	m.mu.Unlock()
	doneC := make(chan struct{})
	stopC := make(chan struct{})
	go func() {
		<-stopC
		close(doneC)
	}()
	return doneC, stopC, nil
}

func (m *MockClient) TradingEnabled() bool { return !m.TradingOff }

func (m *MockClient) Ping(ctx context.Context) error { return nil }
