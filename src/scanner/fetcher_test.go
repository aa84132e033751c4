package scanner

import (
	"context"
	"testing"
	"time"

	"scantrader/src/cex"
	"scantrader/src/cex/cextest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func pairOf(base string) cex.TradingPair {
	return cex.TradingPair{Base: base, Quote: "USDT"}
}

func klineWith(close float64) *cex.KlineData {
	return &cex.KlineData{
		Close:  decimal.NewFromFloat(close),
		Volume: decimal.NewFromFloat(100),
	}
}

func TestFetcher_Klines_Success(t *testing.T) {
	client := cextest.NewMockClient()
	pair := pairOf("BTC")
	client.KlinesByPair[pair.String()] = []*cex.KlineData{klineWith(100)}

	fetcher := NewFetcher(client, 5, time.Millisecond)
	klines := fetcher.Klines(context.Background(), pair, "5m", 10)

	assert.Len(t, klines, 1)
	assert.Equal(t, 1, client.Calls(pair))
}

func TestFetcher_Klines_RetryThenGiveUp(t *testing.T) {
	// 重试耗尽后返回nil（"无数据"），不向调用方抛错误
	client := cextest.NewMockClient()
	pair := pairOf("BTC")
	client.FailPairs[pair.String()] = true

	fetcher := NewFetcher(client, 3, time.Millisecond)
	klines := fetcher.Klines(context.Background(), pair, "5m", 10)

	assert.Nil(t, klines)
	assert.Equal(t, 3, client.Calls(pair))
}

func TestFetcher_Klines_EmptyIsAbsent(t *testing.T) {
	// 网关返回空序列同样视为无数据并触发重试
	client := cextest.NewMockClient()
	pair := pairOf("NEW")

	fetcher := NewFetcher(client, 2, time.Millisecond)
	klines := fetcher.Klines(context.Background(), pair, "5m", 10)

	assert.Nil(t, klines)
	assert.Equal(t, 2, client.Calls(pair))
}

func TestFetcher_Klines_ContextCancelled(t *testing.T) {
	client := cextest.NewMockClient()
	pair := pairOf("BTC")
	client.FailPairs[pair.String()] = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewFetcher(client, 5, time.Second)
	start := time.Now()
	klines := fetcher.Klines(ctx, pair, "5m", 10)

	assert.Nil(t, klines)
	// 取消后不应该把5次1秒的等待睡完
	assert.Less(t, time.Since(start), time.Second)
}
