package engine

import (
	"context"
	"fmt"
	"time"

	"scantrader/src/cex"
	"scantrader/src/executor"
	"scantrader/src/scanner"
	"scantrader/src/screener"
	"scantrader/src/strategy"

	"github.com/shopspring/decimal"
	"github.com/xpwu/go-log/log"
)

// BuyLoop 买入循环
// 在资金闸门上等待，放行后跑一轮"趋势判断 -> 筛选管道 -> 买入规则 -> 随机选择"
// 资金仍然充足时按固定间隔继续尝试，否则等待卖出释放资金
type BuyLoop struct {
	client   cex.Client
	fetcher  *scanner.Fetcher
	pipeline *screener.Pipeline
	picker   screener.Picker
	rules    *strategy.RuleTable
	trend    *TrendCache
	gate     *CapitalGate
	queue    *executor.DispatchQueue

	quote        string
	notional     decimal.Decimal
	maxPositions int
	dust         decimal.Decimal
	decisionTf   string
	klineLimit   int
	interval     time.Duration
}

// BuyLoopParams 买入循环的依赖与参数
type BuyLoopParams struct {
	Client   cex.Client
	Fetcher  *scanner.Fetcher
	Pipeline *screener.Pipeline
	Picker   screener.Picker
	Rules    *strategy.RuleTable
	Trend    *TrendCache
	Gate     *CapitalGate
	Queue    *executor.DispatchQueue

	Quote        string
	Notional     decimal.Decimal
	MaxPositions int
	Dust         decimal.Decimal
	DecisionTf   string
	KlineLimit   int
	Interval     time.Duration
}

// NewBuyLoop 创建买入循环
func NewBuyLoop(p BuyLoopParams) *BuyLoop {
	return &BuyLoop{
		client:       p.Client,
		fetcher:      p.Fetcher,
		pipeline:     p.Pipeline,
		picker:       p.Picker,
		rules:        p.Rules,
		trend:        p.Trend,
		gate:         p.Gate,
		queue:        p.Queue,
		quote:        p.Quote,
		notional:     p.Notional,
		maxPositions: p.MaxPositions,
		dust:         p.Dust,
		decisionTf:   p.DecisionTf,
		klineLimit:   p.KlineLimit,
		interval:     p.Interval,
	}
}

// Run 运行买入循环直到上下文取消
func (l *BuyLoop) Run(ctx context.Context) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("BuyLoop")
	logger.Info("买入循环已启动")

	for {
		if !l.gate.Wait(ctx) {
			logger.Info("买入循环退出")
			return
		}

		l.round(ctx)

		// 资金仍然充足时稍后继续尝试，不足则回到闸门等卖出放行
		// 查询失败按资金充足处理：资金可能并不短缺，停在闸门上会让临时故障变成永久停摆
		balance, err := l.client.GetBalance(ctx, l.quote)
		if err != nil {
			logger.Warning(fmt.Sprintf("查询余额失败: %v", err))
		}
		if err != nil || balance.GreaterThanOrEqual(l.notional) {
			select {
			case <-ctx.Done():
				logger.Info("买入循环退出")
				return
			case <-time.After(l.interval):
			}
			l.gate.Signal()
		}
	}
}

// heldPairs 当前非灰尘持仓的交易对集合
func (l *BuyLoop) heldPairs(ctx context.Context) (map[string]struct{}, error) {
	positions, err := l.client.GetPositions(ctx, l.quote)
	if err != nil {
		return nil, err
	}

	held := make(map[string]struct{})
	for _, pos := range positions {
		if pos.Quantity.GreaterThan(l.dust) {
			held[pos.TradingPair.String()] = struct{}{}
		}
	}
	return held, nil
}

// round 跑一轮买入决策，最多产生一个买入意图
func (l *BuyLoop) round(ctx context.Context) {
	ctx, logger := log.WithCtx(ctx)

	balance, err := l.client.GetBalance(ctx, l.quote)
	if err != nil {
		logger.Warning(fmt.Sprintf("查询余额失败: %v", err))
		return
	}
	if balance.LessThan(l.notional) {
		return
	}

	held, err := l.heldPairs(ctx)
	if err != nil {
		logger.Warning(fmt.Sprintf("查询持仓失败: %v", err))
		return
	}
	if len(held) >= l.maxPositions {
		logger.Debug(fmt.Sprintf("持仓已满(%d)，跳过本轮买入", len(held)))
		return
	}

	trend := l.trend.Trend(ctx)
	rule := l.rules.ForTrend(trend)
	if rule == nil {
		logger.Debug(fmt.Sprintf("趋势%s下不买入", trend))
		return
	}

	candidates := l.pipeline.Candidates(ctx)
	if len(candidates) == 0 {
		return
	}

	approved := make([]cex.TradingPair, 0, len(candidates))
	reasons := make(map[string]string, len(candidates))
	for _, pair := range candidates {
		if _, exists := held[pair.String()]; exists {
			continue
		}
		if l.queue.Pending(pair.String()) {
			continue
		}

		klines := l.fetcher.Klines(ctx, pair, l.decisionTf, l.klineLimit)
		if klines == nil {
			continue
		}

		ok, reason, err := rule.Evaluate(klines)
		if err != nil {
			logger.Warning(fmt.Sprintf("买入规则求值失败 %s: %v", pair.String(), err))
			continue
		}
		if ok {
			approved = append(approved, pair)
			reasons[pair.String()] = reason
		}
	}

	picked, ok := l.picker.Pick(approved)
	if !ok {
		return
	}

	reason := fmt.Sprintf("%s trend, %s", trend, reasons[picked.String()])
	if l.queue.Enqueue(ctx, executor.Intent{
		TradingPair: picked,
		Side:        cex.OrderSideBuy,
		Type:        cex.OrderTypeMarket,
		Notional:    l.notional,
		Reason:      reason,
	}) {
		logger.Info(fmt.Sprintf("提名买入 %s: %s", picked.String(), reason))
	}
}
