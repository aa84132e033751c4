package binance

import (
	"scantrader/src/cex"
)

// BinanceFactory Binance工厂实现
type BinanceFactory struct{}

// CreateClient 创建Binance客户端
func (f *BinanceFactory) CreateClient() cex.Client {
	config := &ConfigValue
	return NewClient(config.APIKey, config.SecretKey)
}

// 注册Binance工厂
func init() {
	cex.RegisterFactory("binance", &BinanceFactory{})
}
