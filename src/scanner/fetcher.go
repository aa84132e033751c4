package scanner

import (
	"context"
	"fmt"
	"time"

	"scantrader/src/cex"

	"github.com/xpwu/go-log/log"
)

// Fetcher 带重试的K线抓取器
// 把网关的瞬时失败归一化成"无数据"：固定次数重试后返回nil，绝不向调用方抛错误
type Fetcher struct {
	client  cex.Client
	retries int
	delay   time.Duration
}

// NewFetcher 创建抓取器
func NewFetcher(client cex.Client, retries int, delay time.Duration) *Fetcher {
	if retries <= 0 {
		retries = 1
	}
	return &Fetcher{
		client:  client,
		retries: retries,
		delay:   delay,
	}
}

// Klines 抓取K线数据，重试耗尽返回nil并记录警告
func (f *Fetcher) Klines(ctx context.Context, pair cex.TradingPair, interval string, limit int) []*cex.KlineData {
	ctx, logger := log.WithCtx(ctx)

	var lastErr error
	for attempt := 0; attempt < f.retries; attempt++ {
		klines, err := f.client.GetKlines(ctx, pair, interval, limit)
		if err == nil && len(klines) > 0 {
			return klines
		}
		lastErr = err

		// 重试前等待，进程退出时立即放弃
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(f.delay):
		}
	}

	logger.Warning(fmt.Sprintf("%s K线抓取%d次后放弃: interval=%s err=%v",
		pair.String(), f.retries, interval, lastErr))
	return nil
}
