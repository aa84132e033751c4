package scanner

import (
	"context"
	"fmt"
	"sync"

	"scantrader/src/cex"

	"github.com/shopspring/decimal"
	"github.com/xpwu/go-log/log"
)

// Scanner 并发扫描器
// 用固定数量的工作协程对资产全集做抓取+判定，单个资产的失败或panic只影响它自己
// 结果映射不保证任何顺序
type Scanner struct {
	fetcher *Fetcher
	workers int
}

// NewScanner 创建扫描器
func NewScanner(fetcher *Fetcher, workers int) *Scanner {
	if workers <= 0 {
		workers = 1
	}
	return &Scanner{
		fetcher: fetcher,
		workers: workers,
	}
}

// run 固定协程数的扇出骨架，eval内部的panic被隔离并记录
func (s *Scanner) run(ctx context.Context, pairs []cex.TradingPair, eval func(pair cex.TradingPair)) {
	jobs := make(chan cex.TradingPair)
	var wg sync.WaitGroup

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pair := range jobs {
				s.safeEval(ctx, pair, eval)
			}
		}()
	}

	for _, pair := range pairs {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- pair:
		}
	}
	close(jobs)
	wg.Wait()
}

// safeEval 单个资产的求值，panic不允许波及兄弟资产
func (s *Scanner) safeEval(ctx context.Context, pair cex.TradingPair, eval func(pair cex.TradingPair)) {
	_, logger := log.WithCtx(ctx)
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("%s 扫描求值panic: %v", pair.String(), r))
		}
	}()
	eval(pair)
}

// Collect 并发抓取K线，返回抓取成功的资产到K线序列的映射
// 抓取失败（重试耗尽）的资产被省略，不会出现nil值的条目
func (s *Scanner) Collect(ctx context.Context, pairs []cex.TradingPair, interval string, limit int) map[cex.TradingPair][]*cex.KlineData {
	results := make(map[cex.TradingPair][]*cex.KlineData)
	var mu sync.Mutex

	s.run(ctx, pairs, func(pair cex.TradingPair) {
		klines := s.fetcher.Klines(ctx, pair, interval, limit)
		if klines == nil {
			return
		}
		mu.Lock()
		results[pair] = klines
		mu.Unlock()
	})

	return results
}

// Measure 并发抓取并对每个资产求一个数值（如成交量）
// eval返回false表示该资产没有可用的量，被省略
func (s *Scanner) Measure(ctx context.Context, pairs []cex.TradingPair, interval string, limit int,
	eval func(pair cex.TradingPair, klines []*cex.KlineData) (decimal.Decimal, bool)) map[cex.TradingPair]decimal.Decimal {

	results := make(map[cex.TradingPair]decimal.Decimal)
	var mu sync.Mutex

	s.run(ctx, pairs, func(pair cex.TradingPair) {
		klines := s.fetcher.Klines(ctx, pair, interval, limit)
		if klines == nil {
			return
		}
		value, ok := eval(pair, klines)
		if !ok {
			return
		}
		mu.Lock()
		results[pair] = value
		mu.Unlock()
	})

	return results
}

// Screen 并发抓取并过滤出判定为真的资产
func (s *Scanner) Screen(ctx context.Context, pairs []cex.TradingPair, interval string, limit int,
	pred func(pair cex.TradingPair, klines []*cex.KlineData) bool) []cex.TradingPair {

	var survivors []cex.TradingPair
	var mu sync.Mutex

	s.run(ctx, pairs, func(pair cex.TradingPair) {
		klines := s.fetcher.Klines(ctx, pair, interval, limit)
		if klines == nil {
			return
		}
		if !pred(pair, klines) {
			return
		}
		mu.Lock()
		survivors = append(survivors, pair)
		mu.Unlock()
	})

	return survivors
}
