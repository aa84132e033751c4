package engine

import (
	"context"
	"fmt"
	"time"

	"scantrader/src/cex"
	"scantrader/src/config"
	"scantrader/src/database"
	"scantrader/src/executor"
	"scantrader/src/market"
	"scantrader/src/scanner"
	"scantrader/src/screener"
	"scantrader/src/strategy"

	"github.com/shopspring/decimal"
	"github.com/xpwu/go-log/log"
)

// TradingEngine 交易引擎
// 组装行情缓存、筛选管道、买卖循环与派发队列，由监护器保证循环存活
type TradingEngine struct {
	client     cex.Client
	universe   *market.Universe
	feed       *market.PriceFeed
	queue      *executor.DispatchQueue
	supervisor *Supervisor
	gate       *CapitalGate
	store      *database.Store
	cfg        *config.Config
}

// buyRule 把配置里的趋势规则转成策略规则
func buyRule(rule config.TrendRule, strat config.StrategyConfig) *strategy.BuyRule {
	return &strategy.BuyRule{
		RSIPeriod:        strat.RSIPeriod,
		RSIMin:           rule.RSIMin,
		RSIMax:           rule.RSIMax,
		GoldenCrossShort: rule.GoldenCrossShort,
		GoldenCrossLong:  rule.GoldenCrossLong,
		RequireGolden:    rule.RequireGolden,
		RequireStochUp:   rule.RequireStochUp,
		StochKMax:        rule.StochKMax,
		StochKPeriod:     strat.StochKPeriod,
		StochDPeriod:     strat.StochDPeriod,
	}
}

func bands(b config.TrendBands) strategy.Bands {
	return strategy.Bands{
		TakeProfit:     b.TakeProfit,
		StopLoss:       b.StopLoss,
		LimitExitRatio: b.LimitExitRatio,
	}
}

// buildExecutor 按客户端的交易权限选择执行器
// 未开通交易权限时只产生决策日志，任何订单都不会提交到交易所
func buildExecutor(ctx context.Context, client cex.Client, journal executor.Journal,
	quote string, dust decimal.Decimal, maxPositions int) executor.Executor {
	_, logger := log.WithCtx(ctx)
	if !client.TradingEnabled() {
		logger.Warning("未开通交易权限，使用只记录决策的执行器")
		return executor.NewDryRunExecutor()
	}
	return executor.NewLiveExecutor(client, journal, quote, dust, maxPositions)
}

// NewTradingEngine 按配置组装交易引擎
func NewTradingEngine(ctx context.Context, cfg *config.Config) (*TradingEngine, error) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Engine")

	client, err := cex.CreateClient(cfg.CEXName)
	if err != nil {
		return nil, fmt.Errorf("create cex client: %w", err)
	}

	var store *database.Store
	if cfg.Trading.JournalEnabled {
		store, err = database.Open(ctx)
		if err != nil {
			// 数据库不可用时降级为只记日志，不阻止交易
			logger.Warning(fmt.Sprintf("成交流水数据库不可用，降级为日志模式: %v", err))
			store = nil
		}
	}

	quote := cfg.Trading.QuoteAsset
	dust := cfg.GetDustQuantity()

	universe := market.NewUniverse(client, quote,
		time.Duration(cfg.Market.UniverseRefreshMin)*time.Minute)
	feed := market.NewPriceFeed(client, quote,
		time.Duration(cfg.Market.PriceStalenessSec)*time.Second)

	fetcher := scanner.NewFetcher(client, cfg.Scanner.Retries,
		time.Duration(cfg.Scanner.RetryDelaySec)*time.Second)
	sc := scanner.NewScanner(fetcher, cfg.Scanner.Workers)
	pipeline := screener.NewPipeline(sc, universe, cfg.Screener)

	var journal executor.Journal
	if store != nil {
		journal = store
	}
	exec := buildExecutor(ctx, client, journal, quote, dust, cfg.Trading.MaxPositions)

	gate := NewCapitalGate()
	queue := executor.NewDispatchQueue(exec, cfg.Trading.QueueSize,
		func(intent executor.Intent, fill *executor.Fill) {
			// 卖出成交释放资金，放行买入循环
			if intent.Side == cex.OrderSideSell {
				gate.Signal()
			}
		})

	strat := cfg.Strategy
	trendCache := NewTrendCache(fetcher,
		cex.TradingPair{Base: strat.TrendBase, Quote: quote},
		strat.TrendTimeframe, strat.KlineLimit,
		strat.TrendShortWindow, strat.TrendLongWindow, time.Minute)

	rules := &strategy.RuleTable{
		Bull:     buyRule(strat.Bull, strat),
		Bear:     buyRule(strat.Bear, strat),
		Sideways: buyRule(strat.Sideways, strat),
	}
	sellEngine := strategy.NewSellEngine(client.GetTradingFee(), strategy.BandTable{
		Bull:     bands(strat.BullBands),
		Bear:     bands(strat.BearBands),
		Sideways: bands(strat.SidewaysBands),
	}, cfg.Trading.PriceDecimals)

	buyLoop := NewBuyLoop(BuyLoopParams{
		Client:       client,
		Fetcher:      fetcher,
		Pipeline:     pipeline,
		Picker:       screener.NewRandomPicker(),
		Rules:        rules,
		Trend:        trendCache,
		Gate:         gate,
		Queue:        queue,
		Quote:        quote,
		Notional:     cfg.GetBuyNotional(),
		MaxPositions: cfg.Trading.MaxPositions,
		Dust:         dust,
		DecisionTf:   strat.DecisionTf,
		KlineLimit:   strat.KlineLimit,
		Interval:     time.Duration(cfg.Trading.BuyIntervalSec) * time.Second,
	})
	sellLoop := NewSellLoop(SellLoopParams{
		Client:      client,
		Universe:    universe,
		Feed:        feed,
		Engine:      sellEngine,
		Trend:       trendCache,
		Queue:       queue,
		Quote:       quote,
		Dust:        dust,
		Interval:    time.Duration(cfg.Trading.SellIntervalSec) * time.Second,
		LogThrottle: time.Duration(cfg.Trading.NoSellLogSec) * time.Second,
	})

	supervisor := NewSupervisor(time.Duration(cfg.Supervisor.CheckIntervalSec) * time.Second)
	supervisor.Register("dispatch-queue", queue.Run)
	supervisor.Register("buy-loop", buyLoop.Run)
	supervisor.Register("sell-loop", sellLoop.Run)

	return &TradingEngine{
		client:     client,
		universe:   universe,
		feed:       feed,
		queue:      queue,
		supervisor: supervisor,
		gate:       gate,
		store:      store,
		cfg:        cfg,
	}, nil
}

// Run 启动引擎并阻塞到上下文取消
func (e *TradingEngine) Run(ctx context.Context) error {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Engine")

	if err := e.client.Ping(ctx); err != nil {
		return fmt.Errorf("ping cex: %w", err)
	}

	if err := e.universe.Refresh(ctx); err != nil {
		return err
	}

	if e.cfg.Market.EnableStream {
		if err := e.feed.Start(ctx); err != nil {
			// 推送失败不致命，价格读取会回落到REST
			logger.Warning(fmt.Sprintf("行情推送启动失败: %v", err))
		} else {
			defer e.feed.Stop()
		}
	}

	logger.Info(fmt.Sprintf("交易引擎已启动: cex=%s quote=%s 最大持仓=%d",
		e.client.GetName(), e.cfg.Trading.QuoteAsset, e.cfg.Trading.MaxPositions))

	e.supervisor.Run(ctx)

	if e.store != nil {
		if err := e.store.Close(); err != nil {
			logger.Warning(fmt.Sprintf("关闭数据库失败: %v", err))
		}
	}
	logger.Info("交易引擎已停止")
	return nil
}
