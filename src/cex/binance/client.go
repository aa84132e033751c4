package binance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"scantrader/src/cex"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
)

// 小于该数量的余额视为灰尘，不计入持仓
var dustQuantity = decimal.NewFromFloat(0.0001)

// Client Binance客户端实现
type Client struct {
	client    *binance.Client
	apiKey    string
	secretKey string
}

// NewClient 创建Binance客户端
func NewClient(apiKey, secretKey string) *Client {
	binanceClient := binance.NewClient(apiKey, secretKey)

	config := &ConfigValue
	if config.BaseURL != "" {
		binanceClient.BaseURL = config.BaseURL
	}

	return &Client{
		client:    binanceClient,
		apiKey:    apiKey,
		secretKey: secretKey,
	}
}

// GetName 获取交易所名称
func (c *Client) GetName() string {
	return "binance"
}

// GetTradingFee 获取交易手续费率
func (c *Client) GetTradingFee() float64 {
	config := &ConfigValue
	return config.Fee
}

// tradingPairToSymbol 将标准化交易对转换为Binance格式
func (c *Client) tradingPairToSymbol(pair cex.TradingPair) string {
	// Binance格式: BTCUSDT, DOGEUSDT (无分隔符)
	return strings.ToUpper(pair.Base) + strings.ToUpper(pair.Quote)
}

// symbolToTradingPair 按计价货币后缀还原标准化交易对，失败时返回false
func symbolToTradingPair(symbol, quote string) (cex.TradingPair, bool) {
	symbol = strings.ToUpper(symbol)
	quote = strings.ToUpper(quote)
	if !strings.HasSuffix(symbol, quote) || len(symbol) <= len(quote) {
		return cex.TradingPair{}, false
	}
	return cex.TradingPair{Base: symbol[:len(symbol)-len(quote)], Quote: quote}, true
}

// convertKlineData 转换Binance K线数据为标准格式
func (c *Client) convertKlineData(kline *binance.Kline, pair cex.TradingPair) *cex.KlineData {
	open, _ := decimal.NewFromString(kline.Open)
	high, _ := decimal.NewFromString(kline.High)
	low, _ := decimal.NewFromString(kline.Low)
	close, _ := decimal.NewFromString(kline.Close)
	volume, _ := decimal.NewFromString(kline.Volume)
	quoteVolume, _ := decimal.NewFromString(kline.QuoteAssetVolume)

	return &cex.KlineData{
		TradingPair: pair,
		OpenTime:    time.Unix(kline.OpenTime/1000, 0),
		Open:        open,
		High:        high,
		Low:         low,
		Close:       close,
		Volume:      volume,
		CloseTime:   time.Unix(kline.CloseTime/1000, 0),
		QuoteVolume: quoteVolume,
	}
}

// GetTickers 获取以指定计价货币结算的全部可交易交易对
func (c *Client) GetTickers(ctx context.Context, quote string) ([]cex.TradingPair, error) {
	info, err := c.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange info from Binance: %w", err)
	}

	quote = strings.ToUpper(quote)
	var pairs []cex.TradingPair
	for _, symbol := range info.Symbols {
		if symbol.Status != "TRADING" {
			continue
		}
		if symbol.QuoteAsset != quote {
			continue
		}
		pairs = append(pairs, cex.TradingPair{Base: symbol.BaseAsset, Quote: symbol.QuoteAsset})
	}

	return pairs, nil
}

// GetKlines 获取K线数据
func (c *Client) GetKlines(ctx context.Context, pair cex.TradingPair, interval string, limit int) ([]*cex.KlineData, error) {
	symbol := c.tradingPairToSymbol(pair)

	klines, err := c.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get klines from Binance: %w", err)
	}

	result := make([]*cex.KlineData, len(klines))
	for i, kline := range klines {
		result[i] = c.convertKlineData(kline, pair)
	}

	return result, nil
}

// GetTickerPrice 获取当前价格
func (c *Client) GetTickerPrice(ctx context.Context, pair cex.TradingPair) (decimal.Decimal, error) {
	symbol := c.tradingPairToSymbol(pair)

	prices, err := c.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get ticker price from Binance: %w", err)
	}
	if len(prices) == 0 {
		return decimal.Zero, fmt.Errorf("no ticker price returned for %s", symbol)
	}

	price, err := decimal.NewFromString(prices[0].Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid ticker price %q for %s: %w", prices[0].Price, symbol, err)
	}
	return price, nil
}

// GetBalance 获取指定资产的可用余额
func (c *Client) GetBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	account, err := c.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get account from Binance: %w", err)
	}

	asset = strings.ToUpper(asset)
	for _, balance := range account.Balances {
		if balance.Asset == asset {
			free, _ := decimal.NewFromString(balance.Free)
			return free, nil
		}
	}

	return decimal.Zero, nil
}

// GetPositions 获取当前持仓快照
// 数量来自账户余额，平均成本从最近的买入成交重建；重建不了的持仓成本为零
func (c *Client) GetPositions(ctx context.Context, quote string) ([]*cex.Position, error) {
	account, err := c.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get account from Binance: %w", err)
	}

	quote = strings.ToUpper(quote)
	var positions []*cex.Position
	for _, balance := range account.Balances {
		if balance.Asset == quote {
			continue
		}

		free, _ := decimal.NewFromString(balance.Free)
		locked, _ := decimal.NewFromString(balance.Locked)
		quantity := free.Add(locked)
		if quantity.LessThan(dustQuantity) {
			continue
		}

		pair := cex.TradingPair{Base: balance.Asset, Quote: quote}
		avgPrice, err := c.averageBuyPrice(ctx, pair, quantity)
		if err != nil {
			// 成本重建失败不应该让整个快照失败，留零让决策层过滤
			avgPrice = decimal.Zero
		}

		positions = append(positions, &cex.Position{
			TradingPair: pair,
			Quantity:    quantity,
			AvgBuyPrice: avgPrice,
		})
	}

	return positions, nil
}

// averageBuyPrice 用最近的买入成交覆盖当前持有数量，计算加权平均成本
func (c *Client) averageBuyPrice(ctx context.Context, pair cex.TradingPair, held decimal.Decimal) (decimal.Decimal, error) {
	config := &ConfigValue
	symbol := c.tradingPairToSymbol(pair)

	trades, err := c.client.NewListTradesService().
		Symbol(symbol).
		Limit(config.TradeLookback).
		Do(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get trades from Binance: %w", err)
	}

	// 从最新成交往回累计买入，直到覆盖当前持仓
	remaining := held
	cost := decimal.Zero
	counted := decimal.Zero
	for i := len(trades) - 1; i >= 0 && remaining.IsPositive(); i-- {
		trade := trades[i]
		if !trade.IsBuyer {
			continue
		}

		price, _ := decimal.NewFromString(trade.Price)
		quantity, _ := decimal.NewFromString(trade.Quantity)
		if quantity.GreaterThan(remaining) {
			quantity = remaining
		}

		cost = cost.Add(price.Mul(quantity))
		counted = counted.Add(quantity)
		remaining = remaining.Sub(quantity)
	}

	if counted.IsZero() {
		return decimal.Zero, nil
	}
	return cost.Div(counted), nil
}

// Buy 买入
func (c *Client) Buy(ctx context.Context, order cex.BuyOrderRequest) (*cex.OrderResult, error) {
	symbol := c.tradingPairToSymbol(order.TradingPair)

	service := c.client.NewCreateOrderService().
		Symbol(symbol).
		Side(binance.SideTypeBuy).
		Type(binance.OrderType(order.Type))

	if order.Type == cex.OrderTypeMarket {
		// 市价买入按计价货币金额下单
		service = service.QuoteOrderQty(order.Notional.String())
	} else {
		service = service.Quantity(order.Quantity.String()).
			Price(order.Price.String()).
			TimeInForce(binance.TimeInForceTypeGTC)
	}

	result, err := service.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to place buy order on Binance: %w", err)
	}

	return c.convertOrderResult(result, order.TradingPair, cex.OrderSideBuy), nil
}

// Sell 卖出
func (c *Client) Sell(ctx context.Context, order cex.SellOrderRequest) (*cex.OrderResult, error) {
	symbol := c.tradingPairToSymbol(order.TradingPair)

	service := c.client.NewCreateOrderService().
		Symbol(symbol).
		Side(binance.SideTypeSell).
		Type(binance.OrderType(order.Type)).
		Quantity(order.Quantity.String())

	if order.Type == cex.OrderTypeLimit {
		service = service.Price(order.Price.String()).TimeInForce(binance.TimeInForceTypeGTC)
	}

	result, err := service.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to place sell order on Binance: %w", err)
	}

	return c.convertOrderResult(result, order.TradingPair, cex.OrderSideSell), nil
}

// convertOrderResult 转换Binance下单结果为标准格式
func (c *Client) convertOrderResult(result *binance.CreateOrderResponse, pair cex.TradingPair, side cex.OrderSide) *cex.OrderResult {
	price, _ := decimal.NewFromString(result.Price)
	quantity, _ := decimal.NewFromString(result.ExecutedQuantity)

	// 市价单回执里Price为0，用成交额/成交量还原均价
	if price.IsZero() && quantity.IsPositive() {
		cumQuote, _ := decimal.NewFromString(result.CummulativeQuoteQuantity)
		if cumQuote.IsPositive() {
			price = cumQuote.Div(quantity)
		}
	}

	return &cex.OrderResult{
		TradingPair:   pair,
		OrderID:       fmt.Sprintf("%d", result.OrderID),
		ClientOrderID: result.ClientOrderID,
		Price:         price,
		Quantity:      quantity,
		Side:          side,
		Status:        string(result.Status),
		Type:          cex.OrderType(result.Type),
		TransactTime:  time.Unix(result.TransactTime/1000, 0),
	}
}

// SubscribeMiniTickers 订阅全市场行情推送，只回调指定计价货币的交易对
func (c *Client) SubscribeMiniTickers(quote string, handler cex.MiniTickerHandler, errHandler cex.ErrHandler) (chan struct{}, chan struct{}, error) {
	wsHandler := func(events binance.WsAllMiniMarketsStatEvent) {
		for _, event := range events {
			pair, ok := symbolToTradingPair(event.Symbol, quote)
			if !ok {
				continue
			}

			price, err := decimal.NewFromString(event.LastPrice)
			if err != nil {
				continue
			}

			handler(&cex.MiniTicker{
				TradingPair: pair,
				Price:       price,
				Time:        time.Unix(event.Time/1000, 0),
			})
		}
	}

	doneC, stopC, err := binance.WsAllMiniMarketsStatServe(wsHandler, func(err error) {
		errHandler(err)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to subscribe mini tickers on Binance: %w", err)
	}
	return doneC, stopC, nil
}

// TradingEnabled 是否开通真实下单权限
func (c *Client) TradingEnabled() bool {
	return ConfigValue.EnableTrading && !ConfigValue.ReadOnly
}

// Ping 测试连接
func (c *Client) Ping(ctx context.Context) error {
	err := c.client.NewPingService().Do(ctx)
	if err != nil {
		return fmt.Errorf("Binance ping failed: %w", err)
	}
	return nil
}
