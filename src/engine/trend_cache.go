package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"scantrader/src/cex"
	"scantrader/src/scanner"
	"scantrader/src/strategy"

	"github.com/xpwu/go-log/log"
)

// TrendCache 市场趋势缓存
// 以基准货币（如BTC）的日线判断整体趋势，买卖循环共用一个缓存
// 避免卖出循环每秒都去拉日线
type TrendCache struct {
	fetcher *scanner.Fetcher
	pair    cex.TradingPair
	tf      string
	limit   int
	short   int
	long    int
	ttl     time.Duration

	mu    sync.Mutex
	trend strategy.Trend
	at    time.Time
}

// NewTrendCache 创建趋势缓存
func NewTrendCache(fetcher *scanner.Fetcher, pair cex.TradingPair, tf string, limit, short, long int, ttl time.Duration) *TrendCache {
	return &TrendCache{
		fetcher: fetcher,
		pair:    pair,
		tf:      tf,
		limit:   limit,
		short:   short,
		long:    long,
		ttl:     ttl,
		trend:   strategy.TrendSideways,
	}
}

// Trend 获取当前市场趋势
// 缓存过期时重新拉取K线计算，拉取失败保守地沿用上次结果
func (c *TrendCache) Trend(ctx context.Context) strategy.Trend {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.at.IsZero() && time.Since(c.at) < c.ttl {
		return c.trend
	}

	ctx, logger := log.WithCtx(ctx)
	klines := c.fetcher.Klines(ctx, c.pair, c.tf, c.limit)
	if klines == nil {
		logger.Warning(fmt.Sprintf("趋势K线拉取失败，沿用上次趋势: %s", c.trend))
		return c.trend
	}

	trend := strategy.Classify(klines, c.short, c.long)
	if trend != c.trend {
		logger.Info(fmt.Sprintf("市场趋势切换: %s -> %s", c.trend, trend))
	}
	c.trend = trend
	c.at = time.Now()
	return c.trend
}
