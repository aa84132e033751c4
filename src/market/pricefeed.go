package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"scantrader/src/cex"

	"github.com/shopspring/decimal"
	"github.com/xpwu/go-log/log"
)

type pricePoint struct {
	price decimal.Decimal
	time  time.Time
}

// PriceFeed 最新价格缓存
// 行情推送持续写入，读取时检查新鲜度，过期或缺失则回落到REST查询
type PriceFeed struct {
	client    cex.Client
	quote     string
	staleness time.Duration

	mu     sync.RWMutex
	latest map[string]pricePoint

	stopC chan struct{}
	doneC chan struct{}
}

// NewPriceFeed 创建价格缓存
func NewPriceFeed(client cex.Client, quote string, staleness time.Duration) *PriceFeed {
	return &PriceFeed{
		client:    client,
		quote:     quote,
		staleness: staleness,
		latest:    make(map[string]pricePoint),
	}
}

// Start 启动行情推送订阅
func (p *PriceFeed) Start(ctx context.Context) error {
	_, logger := log.WithCtx(ctx)
	logger.PushPrefix("PriceFeed")

	doneC, stopC, err := p.client.SubscribeMiniTickers(p.quote,
		func(ticker *cex.MiniTicker) {
			p.Update(ticker.TradingPair, ticker.Price, ticker.Time)
		},
		func(err error) {
			logger.Warning(fmt.Sprintf("行情推送错误: %v", err))
		})
	if err != nil {
		logger.Error(fmt.Sprintf("订阅行情推送失败: %v", err))
		return fmt.Errorf("subscribe mini tickers: %w", err)
	}

	p.stopC = stopC
	p.doneC = doneC
	logger.Info("行情推送已启动")
	return nil
}

// Stop 断开行情推送
func (p *PriceFeed) Stop() {
	if p.stopC != nil {
		close(p.stopC)
		<-p.doneC
		p.stopC = nil
		p.doneC = nil
	}
}

// Update 写入一条最新价格
func (p *PriceFeed) Update(pair cex.TradingPair, price decimal.Decimal, at time.Time) {
	p.mu.Lock()
	p.latest[pair.String()] = pricePoint{price: price, time: at}
	p.mu.Unlock()
}

// Price 获取交易对的最新价格
// 缓存内有新鲜价格直接返回，否则回落到REST查询并回填缓存
func (p *PriceFeed) Price(ctx context.Context, pair cex.TradingPair) (decimal.Decimal, error) {
	p.mu.RLock()
	point, ok := p.latest[pair.String()]
	p.mu.RUnlock()

	if ok && time.Since(point.time) < p.staleness {
		return point.price, nil
	}

	price, err := p.client.GetTickerPrice(ctx, pair)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get ticker price %s: %w", pair.String(), err)
	}

	p.Update(pair, price, time.Now())
	return price, nil
}
