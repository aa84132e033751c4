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

func newTestScanner(client *cextest.MockClient, workers int) *Scanner {
	return NewScanner(NewFetcher(client, 1, time.Millisecond), workers)
}

func TestScanner_Collect_PartialFailure(t *testing.T) {
	// 部分资产抓取失败时其余资产的结果不受影响
	client := cextest.NewMockClient()
	good1, good2, bad := pairOf("BTC"), pairOf("ETH"), pairOf("DOGE")
	client.KlinesByPair[good1.String()] = []*cex.KlineData{klineWith(100)}
	client.KlinesByPair[good2.String()] = []*cex.KlineData{klineWith(200)}
	client.FailPairs[bad.String()] = true

	scanner := newTestScanner(client, 5)
	results := scanner.Collect(context.Background(), []cex.TradingPair{good1, bad, good2}, "5m", 10)

	assert.Len(t, results, 2)
	assert.Contains(t, results, good1)
	assert.Contains(t, results, good2)
	assert.NotContains(t, results, bad)
}

func TestScanner_Measure_PanicIsolation(t *testing.T) {
	// 单个资产求值panic不能波及兄弟资产
	client := cextest.NewMockClient()
	pairs := []cex.TradingPair{pairOf("BTC"), pairOf("ETH"), pairOf("XRP")}
	for _, p := range pairs {
		client.KlinesByPair[p.String()] = []*cex.KlineData{klineWith(100)}
	}

	scanner := newTestScanner(client, 3)
	results := scanner.Measure(context.Background(), pairs, "1d", 1,
		func(pair cex.TradingPair, klines []*cex.KlineData) (decimal.Decimal, bool) {
			if pair.Base == "ETH" {
				panic("boom")
			}
			return klines[0].Volume, true
		})

	assert.Len(t, results, 2)
	assert.Contains(t, results, pairOf("BTC"))
	assert.Contains(t, results, pairOf("XRP"))
	assert.NotContains(t, results, pairOf("ETH"))
}

func TestScanner_Screen(t *testing.T) {
	client := cextest.NewMockClient()
	rising, falling := pairOf("BTC"), pairOf("ETH")
	client.KlinesByPair[rising.String()] = []*cex.KlineData{klineWith(100), klineWith(102)}
	client.KlinesByPair[falling.String()] = []*cex.KlineData{klineWith(100), klineWith(98)}

	scanner := newTestScanner(client, 2)
	survivors := scanner.Screen(context.Background(), []cex.TradingPair{rising, falling}, "5m", 2,
		func(pair cex.TradingPair, klines []*cex.KlineData) bool {
			last := klines[len(klines)-1]
			prev := klines[len(klines)-2]
			return last.Close.GreaterThan(prev.Close)
		})

	assert.Equal(t, []cex.TradingPair{rising}, survivors)
}

func TestScanner_Collect_AllComplete(t *testing.T) {
	// 成功抓取的资产一个都不能丢，worker数少于资产数也一样
	client := cextest.NewMockClient()
	var pairs []cex.TradingPair
	for _, base := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		p := pairOf(base)
		pairs = append(pairs, p)
		client.KlinesByPair[p.String()] = []*cex.KlineData{klineWith(1)}
	}

	scanner := newTestScanner(client, 3)
	results := scanner.Collect(context.Background(), pairs, "5m", 1)

	assert.Len(t, results, len(pairs))
}
