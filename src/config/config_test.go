package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := *AppConfig
	return &cfg
}

func TestConfig_Validate_Defaults(t *testing.T) {
	// 默认配置必须是合法的
	require.NoError(t, AppConfig.Validate())
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"空交易所名称", func(c *Config) { c.CEXName = "" }},
		{"空计价货币", func(c *Config) { c.Trading.QuoteAsset = "" }},
		{"买入金额非正", func(c *Config) { c.Trading.BuyNotional = 0 }},
		{"最大持仓非正", func(c *Config) { c.Trading.MaxPositions = 0 }},
		{"灰尘阈值为负", func(c *Config) { c.Trading.DustQuantity = -1 }},
		{"扫描协程非正", func(c *Config) { c.Scanner.Workers = 0 }},
		{"重试次数非正", func(c *Config) { c.Scanner.Retries = 0 }},
		{"排名数量非正", func(c *Config) { c.Screener.VolumeTopN = 0 }},
		{"下跌保护阈值为正", func(c *Config) { c.Screener.GuardThreshold = 0.001 }},
		{"非法K线周期", func(c *Config) { c.Screener.MomentumTimeframe = "90s" }},
		{"趋势窗口非正", func(c *Config) { c.Strategy.TrendShortWindow = 0 }},
		{"短窗口不小于长窗口", func(c *Config) { c.Strategy.TrendShortWindow = 20 }},
		{"RSI周期非正", func(c *Config) { c.Strategy.RSIPeriod = 0 }},
		{"监护间隔非正", func(c *Config) { c.Supervisor.CheckIntervalSec = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_DecimalHelpers(t *testing.T) {
	cfg := validConfig()
	cfg.Trading.BuyNotional = 5500
	cfg.Trading.DustQuantity = 0.0001

	assert.Equal(t, "5500", cfg.GetBuyNotional().String())
	assert.Equal(t, "0.0001", cfg.GetDustQuantity().String())
}
