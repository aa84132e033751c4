package engine

import (
	"context"
	"fmt"
	"time"

	"scantrader/src/cex"
	"scantrader/src/executor"
	"scantrader/src/market"
	"scantrader/src/strategy"

	"github.com/shopspring/decimal"
	"github.com/xpwu/go-log/log"
)

// SellLoop 卖出循环
// 固定间隔巡检全部持仓，达到止盈或止损带的持仓生成卖出意图
// 灰尘持仓、成本未知的持仓、不在全集内的持仓一律跳过
type SellLoop struct {
	client   cex.Client
	universe *market.Universe
	feed     *market.PriceFeed
	engine   *strategy.SellEngine
	trend    *TrendCache
	queue    *executor.DispatchQueue

	quote       string
	dust        decimal.Decimal
	interval    time.Duration
	logThrottle time.Duration

	lastNoSellLog time.Time
}

// SellLoopParams 卖出循环的依赖与参数
type SellLoopParams struct {
	Client   cex.Client
	Universe *market.Universe
	Feed     *market.PriceFeed
	Engine   *strategy.SellEngine
	Trend    *TrendCache
	Queue    *executor.DispatchQueue

	Quote       string
	Dust        decimal.Decimal
	Interval    time.Duration
	LogThrottle time.Duration
}

// NewSellLoop 创建卖出循环
func NewSellLoop(p SellLoopParams) *SellLoop {
	return &SellLoop{
		client:      p.Client,
		universe:    p.Universe,
		feed:        p.Feed,
		engine:      p.Engine,
		trend:       p.Trend,
		queue:       p.Queue,
		quote:       p.Quote,
		dust:        p.Dust,
		interval:    p.Interval,
		logThrottle: p.LogThrottle,
	}
}

// Run 运行卖出循环直到上下文取消
func (l *SellLoop) Run(ctx context.Context) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("SellLoop")
	logger.Info("卖出循环已启动")

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("卖出循环退出")
			return
		case <-ticker.C:
			l.round(ctx)
		}
	}
}

// round 巡检一轮持仓
func (l *SellLoop) round(ctx context.Context) {
	ctx, logger := log.WithCtx(ctx)

	positions, err := l.client.GetPositions(ctx, l.quote)
	if err != nil {
		logger.Warning(fmt.Sprintf("查询持仓失败: %v", err))
		return
	}

	trend := l.trend.Trend(ctx)
	sold := 0

	for _, pos := range positions {
		if pos.Quantity.LessThanOrEqual(l.dust) {
			continue
		}
		// 成本未知的持仓无法判断盈亏，跳过
		if pos.AvgBuyPrice.IsZero() {
			continue
		}
		if !l.universe.Contains(pos.TradingPair) {
			continue
		}
		if l.queue.Pending(pos.TradingPair.String()) {
			continue
		}

		price, err := l.feed.Price(ctx, pos.TradingPair)
		if err != nil {
			logger.Warning(fmt.Sprintf("查询价格失败 %s: %v", pos.TradingPair.String(), err))
			continue
		}

		decision := l.engine.Evaluate(price, pos.AvgBuyPrice, trend)
		if decision.Outcome == strategy.SellOutcomeNone {
			continue
		}

		intent := executor.Intent{
			TradingPair: pos.TradingPair,
			Side:        cex.OrderSideSell,
			Type:        cex.OrderTypeMarket,
			Quantity:    pos.Quantity,
			CostBasis:   pos.AvgBuyPrice,
			Reason:      decision.Reason,
		}
		if !decision.LimitPrice.IsZero() {
			intent.Type = cex.OrderTypeLimit
			intent.Price = decision.LimitPrice
		}

		if l.queue.Enqueue(ctx, intent) {
			sold++
			logger.Info(fmt.Sprintf("提名卖出 %s: %s", pos.TradingPair.String(), decision.Reason))
		}
	}

	if sold == 0 && time.Since(l.lastNoSellLog) >= l.logThrottle {
		logger.Debug(fmt.Sprintf("本轮无卖出，持仓数=%d", len(positions)))
		l.lastNoSellLog = time.Now()
	}
}
