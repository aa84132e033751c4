package config

import (
	"fmt"

	"scantrader/src/timeframes"

	"github.com/shopspring/decimal"
	"github.com/xpwu/go-config/configs"
)

// Config 主配置结构
type Config struct {
	CEXName    string           `conf:"cex_name,交易所名称 - 目前支持binance"`
	Trading    TradingConfig    `conf:"trading,交易基础配置"`
	Scanner    ScannerConfig    `conf:"scanner,并发扫描配置"`
	Screener   ScreenerConfig   `conf:"screener,候选筛选管道配置"`
	Strategy   StrategyConfig   `conf:"strategy,趋势与买卖策略配置"`
	Market     MarketConfig     `conf:"market,行情缓存配置"`
	Supervisor SupervisorConfig `conf:"supervisor,循环监护配置"`
}

// TradingConfig 交易配置
type TradingConfig struct {
	QuoteAsset       string  `conf:"quote_asset,结算货币 - 如USDT"`
	BuyNotional      float64 `conf:"buy_notional,单笔买入金额 - 固定的计价货币金额"`
	MaxPositions     int     `conf:"max_positions,最大持仓数 - 同时持有的不同币种数量上限"`
	DustQuantity     float64 `conf:"dust_quantity,灰尘阈值 - 低于该数量视为未持有"`
	QueueSize        int     `conf:"queue_size,订单派发队列长度"`
	BuyIntervalSec   int     `conf:"buy_interval_sec,买入扫描轮询间隔(秒)"`
	SellIntervalSec  int     `conf:"sell_interval_sec,卖出判断轮询间隔(秒)"`
	NoSellLogSec     int     `conf:"no_sell_log_sec,无卖出日志的节流间隔(秒)"`
	PriceDecimals    int32   `conf:"price_decimals,限价价格小数位数"`
	JournalEnabled   bool    `conf:"journal_enabled,是否将成交写入数据库流水"`
}

// ScannerConfig 并发扫描配置
type ScannerConfig struct {
	Workers       int `conf:"workers,扫描工作协程数量"`
	Retries       int `conf:"retries,单次抓取的最大重试次数"`
	RetryDelaySec int `conf:"retry_delay_sec,重试间隔(秒)"`
}

// ScreenerConfig 候选筛选管道配置
// 四级级联：成交量排名 -> 动量阈值 -> 更细动量阈值 -> 下跌保护
type ScreenerConfig struct {
	VolumeTimeframe   string  `conf:"volume_timeframe,成交量排名所用K线周期"`
	VolumeTopN        int     `conf:"volume_top_n,成交量排名保留数量"`
	MomentumTimeframe string  `conf:"momentum_timeframe,第一级动量K线周期"`
	MomentumThreshold float64 `conf:"momentum_threshold,第一级动量涨幅阈值"`
	FineTimeframe     string  `conf:"fine_timeframe,第二级动量K线周期"`
	FineThreshold     float64 `conf:"fine_threshold,第二级动量涨幅阈值"`
	GuardTimeframe    string  `conf:"guard_timeframe,下跌保护K线周期 - 最细粒度"`
	GuardThreshold    float64 `conf:"guard_threshold,下跌保护容忍跌幅 - 负数"`
}

// TrendRule 单个趋势下的买入规则
type TrendRule struct {
	RSIMin           float64 `conf:"rsi_min,RSI下限(含)"`
	RSIMax           float64 `conf:"rsi_max,RSI上限(不含)"`
	GoldenCrossShort int     `conf:"golden_cross_short,金叉短均线窗口"`
	GoldenCrossLong  int     `conf:"golden_cross_long,金叉长均线窗口"`
	RequireGolden    bool    `conf:"require_golden,是否要求金叉"`
	RequireStochUp   bool    `conf:"require_stoch_up,是否要求%K大于%D"`
	StochKMax        float64 `conf:"stoch_k_max,%K上限 - 0表示不限制"`
}

// TrendBands 单个趋势下的卖出带
// StopLoss为0表示该趋势不止损；LimitExitRatio为0表示止盈走市价单
type TrendBands struct {
	TakeProfit     float64 `conf:"take_profit,止盈触发涨幅"`
	StopLoss       float64 `conf:"stop_loss,止损触发跌幅 - 0表示禁用"`
	LimitExitRatio float64 `conf:"limit_exit_ratio,止盈限价单的目标涨幅 - 0表示市价"`
}

// StrategyConfig 趋势与买卖策略配置
type StrategyConfig struct {
	TrendBase        string     `conf:"trend_base,趋势判断所用的基础货币 - 代表整体市场"`
	TrendTimeframe   string     `conf:"trend_timeframe,趋势判断K线周期"`
	TrendShortWindow int        `conf:"trend_short_window,趋势短均线窗口"`
	TrendLongWindow  int        `conf:"trend_long_window,趋势长均线窗口"`
	KlineLimit       int        `conf:"kline_limit,买入判断拉取的K线条数"`
	DecisionTf       string     `conf:"decision_timeframe,买入判断K线周期"`
	RSIPeriod        int        `conf:"rsi_period,RSI计算周期"`
	StochKPeriod     int        `conf:"stoch_k_period,随机指标%K周期"`
	StochDPeriod     int        `conf:"stoch_d_period,随机指标%D周期"`
	Bull             TrendRule  `conf:"bull,上升趋势买入规则"`
	Bear             TrendRule  `conf:"bear,下降趋势买入规则"`
	Sideways         TrendRule  `conf:"sideways,横盘趋势买入规则"`
	BullBands        TrendBands `conf:"bull_bands,上升趋势卖出带"`
	BearBands        TrendBands `conf:"bear_bands,下降趋势卖出带"`
	SidewaysBands    TrendBands `conf:"sideways_bands,横盘趋势卖出带"`
}

// MarketConfig 行情缓存配置
type MarketConfig struct {
	UniverseRefreshMin int  `conf:"universe_refresh_min,交易对全集刷新间隔(分钟)"`
	PriceStalenessSec  int  `conf:"price_staleness_sec,推送价格的新鲜度窗口(秒)"`
	EnableStream       bool `conf:"enable_stream,是否启用行情推送缓存"`
}

// SupervisorConfig 循环监护配置
type SupervisorConfig struct {
	CheckIntervalSec int `conf:"check_interval_sec,存活检查间隔(秒)"`
}

// AppConfig 全局配置实例
var AppConfig = &Config{
	CEXName: "binance",
	Trading: TradingConfig{
		QuoteAsset:      "USDT",
		BuyNotional:     5500,
		MaxPositions:    13,
		DustQuantity:    0.0001,
		QueueSize:       32,
		BuyIntervalSec:  3,
		SellIntervalSec: 1,
		NoSellLogSec:    30,
		PriceDecimals:   2,
		JournalEnabled:  false,
	},
	Scanner: ScannerConfig{
		Workers:       10,
		Retries:       5,
		RetryDelaySec: 1,
	},
	Screener: ScreenerConfig{
		VolumeTimeframe:   "1d",
		VolumeTopN:        35,
		MomentumTimeframe: "5m",
		MomentumThreshold: 0.01,
		FineTimeframe:     "1m",
		FineThreshold:     0.0035,
		GuardTimeframe:    "1s",
		GuardThreshold:    -0.00075,
	},
	Strategy: StrategyConfig{
		TrendBase:        "BTC",
		TrendTimeframe:   "1d",
		TrendShortWindow: 5,
		TrendLongWindow:  20,
		KlineLimit:       60,
		DecisionTf:       "5m",
		RSIPeriod:        14,
		StochKPeriod:     14,
		StochDPeriod:     3,
		Bull: TrendRule{
			RSIMin:           50,
			RSIMax:           70,
			GoldenCrossShort: 5,
			GoldenCrossLong:  20,
			RequireGolden:    true,
			RequireStochUp:   true,
		},
		Bear: TrendRule{
			RSIMin:           30,
			RSIMax:           40,
			GoldenCrossShort: 3,
			GoldenCrossLong:  10,
			RequireGolden:    true,
		},
		Sideways: TrendRule{
			RSIMin:         0,
			RSIMax:         40,
			RequireStochUp: true,
			StochKMax:      20,
		},
		BullBands: TrendBands{
			TakeProfit:     0.0175,
			LimitExitRatio: 0.015,
		},
		BearBands: TrendBands{
			TakeProfit: 0.02,
			StopLoss:   0.02,
		},
		SidewaysBands: TrendBands{
			TakeProfit: 0.02,
			StopLoss:   0.02,
		},
	},
	Market: MarketConfig{
		UniverseRefreshMin: 60,
		PriceStalenessSec:  60,
		EnableStream:       true,
	},
	Supervisor: SupervisorConfig{
		CheckIntervalSec: 3,
	},
}

// 在包的 init() 函数中注册配置
func init() {
	configs.Unmarshal(AppConfig)
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.CEXName == "" {
		return fmt.Errorf("cex name cannot be empty")
	}

	if c.Trading.QuoteAsset == "" {
		return fmt.Errorf("quote asset cannot be empty")
	}
	if c.Trading.BuyNotional <= 0 {
		return fmt.Errorf("buy notional must be positive")
	}
	if c.Trading.MaxPositions <= 0 {
		return fmt.Errorf("max positions must be positive")
	}
	if c.Trading.DustQuantity < 0 {
		return fmt.Errorf("dust quantity must be non-negative")
	}

	if c.Scanner.Workers <= 0 {
		return fmt.Errorf("scanner workers must be positive")
	}
	if c.Scanner.Retries <= 0 {
		return fmt.Errorf("scanner retries must be positive")
	}

	if c.Screener.VolumeTopN <= 0 {
		return fmt.Errorf("volume top n must be positive")
	}
	if c.Screener.GuardThreshold > 0 {
		return fmt.Errorf("guard threshold must be non-positive")
	}

	// 验证所有时间周期
	for _, tf := range []string{
		c.Screener.VolumeTimeframe,
		c.Screener.MomentumTimeframe,
		c.Screener.FineTimeframe,
		c.Screener.GuardTimeframe,
		c.Strategy.TrendTimeframe,
		c.Strategy.DecisionTf,
	} {
		if _, err := timeframes.ParseTimeframe(tf); err != nil {
			return fmt.Errorf("invalid timeframe: %w", err)
		}
	}

	if c.Strategy.TrendShortWindow <= 0 || c.Strategy.TrendLongWindow <= 0 {
		return fmt.Errorf("trend windows must be positive")
	}
	if c.Strategy.TrendShortWindow >= c.Strategy.TrendLongWindow {
		return fmt.Errorf("trend short window must be less than long window")
	}
	if c.Strategy.RSIPeriod <= 0 {
		return fmt.Errorf("rsi period must be positive")
	}

	if c.Supervisor.CheckIntervalSec <= 0 {
		return fmt.Errorf("supervisor check interval must be positive")
	}

	return nil
}

// GetBuyNotional 获取单笔买入金额
func (c *Config) GetBuyNotional() decimal.Decimal {
	return decimal.NewFromFloat(c.Trading.BuyNotional)
}

// GetDustQuantity 获取灰尘阈值
func (c *Config) GetDustQuantity() decimal.Decimal {
	return decimal.NewFromFloat(c.Trading.DustQuantity)
}
