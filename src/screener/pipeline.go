package screener

import (
	"context"
	"fmt"
	"sort"

	"scantrader/src/cex"
	"scantrader/src/config"
	"scantrader/src/market"
	"scantrader/src/scanner"

	"github.com/shopspring/decimal"
	"github.com/xpwu/go-log/log"
)

// Pipeline 候选筛选管道
// 四级级联：日线成交额排名 -> 粗动量 -> 细动量 -> 下跌保护，最后与全集求交集
type Pipeline struct {
	scanner  *scanner.Scanner
	universe *market.Universe
	cfg      config.ScreenerConfig
}

// NewPipeline 创建筛选管道
func NewPipeline(sc *scanner.Scanner, universe *market.Universe, cfg config.ScreenerConfig) *Pipeline {
	return &Pipeline{
		scanner:  sc,
		universe: universe,
		cfg:      cfg,
	}
}

// closeChange 最新收盘价相对上一根K线收盘价的涨跌幅
// 不看K线内部的开盘价：刚开的新K线内部涨跌接近零，会把真正在涨的资产漏掉
func closeChange(klines []*cex.KlineData) (decimal.Decimal, bool) {
	if len(klines) < 2 {
		return decimal.Zero, false
	}
	prev := klines[len(klines)-2].Close
	if prev.IsZero() {
		return decimal.Zero, false
	}
	cur := klines[len(klines)-1].Close
	return cur.Sub(prev).Div(prev), true
}

// momentumPredicate 构造动量谓词：收盘价相对上一根的涨跌幅不低于threshold
func momentumPredicate(threshold decimal.Decimal) func(pair cex.TradingPair, klines []*cex.KlineData) bool {
	return func(pair cex.TradingPair, klines []*cex.KlineData) bool {
		rate, ok := closeChange(klines)
		if !ok {
			return false
		}
		return rate.GreaterThanOrEqual(threshold)
	}
}

// topByVolume 按日线成交额取前N名
func (p *Pipeline) topByVolume(ctx context.Context, pairs []cex.TradingPair) []cex.TradingPair {
	volumes := p.scanner.Measure(ctx, pairs, p.cfg.VolumeTimeframe, 1,
		func(pair cex.TradingPair, klines []*cex.KlineData) (decimal.Decimal, bool) {
			return klines[len(klines)-1].QuoteVolume, true
		})

	ranked := make([]cex.TradingPair, 0, len(volumes))
	for pair := range volumes {
		ranked = append(ranked, pair)
	}
	sort.Slice(ranked, func(i, j int) bool {
		vi, vj := volumes[ranked[i]], volumes[ranked[j]]
		if !vi.Equal(vj) {
			return vi.GreaterThan(vj)
		}
		return ranked[i].String() < ranked[j].String()
	})

	if len(ranked) > p.cfg.VolumeTopN {
		ranked = ranked[:p.cfg.VolumeTopN]
	}
	return ranked
}

// Candidates 运行整条管道，返回通过全部筛选的候选交易对
func (p *Pipeline) Candidates(ctx context.Context) []cex.TradingPair {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Screener")

	pairs := p.universe.Pairs(ctx)
	if len(pairs) == 0 {
		logger.Warning("交易对全集为空，跳过本轮筛选")
		return nil
	}

	top := p.topByVolume(ctx, pairs)
	logger.Debug(fmt.Sprintf("成交额排名: %d -> %d", len(pairs), len(top)))

	// 动量各级都需要最近两根K线做收盘价对比
	momentum := p.scanner.Screen(ctx, top, p.cfg.MomentumTimeframe, 2,
		momentumPredicate(decimal.NewFromFloat(p.cfg.MomentumThreshold)))
	logger.Debug(fmt.Sprintf("粗动量筛选: %d -> %d", len(top), len(momentum)))

	fine := p.scanner.Screen(ctx, momentum, p.cfg.FineTimeframe, 2,
		momentumPredicate(decimal.NewFromFloat(p.cfg.FineThreshold)))
	logger.Debug(fmt.Sprintf("细动量筛选: %d -> %d", len(momentum), len(fine)))

	// 最细粒度的下跌保护：瞬时跌幅超过容忍值的直接剔除
	guarded := p.scanner.Screen(ctx, fine, p.cfg.GuardTimeframe, 2,
		momentumPredicate(decimal.NewFromFloat(p.cfg.GuardThreshold)))
	logger.Debug(fmt.Sprintf("下跌保护: %d -> %d", len(fine), len(guarded)))

	candidates := make([]cex.TradingPair, 0, len(guarded))
	for _, pair := range guarded {
		if p.universe.Contains(pair) {
			candidates = append(candidates, pair)
		}
	}

	if len(candidates) > 0 {
		logger.Info(fmt.Sprintf("本轮候选: %v", candidates))
	}
	return candidates
}
