package executor

import (
	"context"
	"errors"
	"fmt"

	"scantrader/src/cex"

	"github.com/shopspring/decimal"
	"github.com/xpwu/go-log/log"
)

// 提交前的最终校验失败
var (
	ErrInsufficientBalance = errors.New("insufficient balance for buy")
	ErrPositionCapReached  = errors.New("position cap reached")
	ErrPositionGone        = errors.New("position no longer held")
)

// LiveExecutor 真实下单的执行器
// 提交前重新校验余额、持仓数或持仓量，避免队列排队期间状态已经变化
type LiveExecutor struct {
	client       cex.Client
	journal      Journal // nil表示不写流水
	quote        string
	dust         decimal.Decimal
	maxPositions int // 0表示不限制
}

// NewLiveExecutor 创建执行器
func NewLiveExecutor(client cex.Client, journal Journal, quote string, dust decimal.Decimal, maxPositions int) *LiveExecutor {
	return &LiveExecutor{
		client:       client,
		journal:      journal,
		quote:        quote,
		dust:         dust,
		maxPositions: maxPositions,
	}
}

// Execute 校验并提交订单意图
func (e *LiveExecutor) Execute(ctx context.Context, intent Intent) (*Fill, error) {
	switch intent.Side {
	case cex.OrderSideBuy:
		return e.executeBuy(ctx, intent)
	case cex.OrderSideSell:
		return e.executeSell(ctx, intent)
	default:
		return nil, fmt.Errorf("unknown order side: %s", intent.Side)
	}
}

func (e *LiveExecutor) executeBuy(ctx context.Context, intent Intent) (*Fill, error) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Executor")

	balance, err := e.client.GetBalance(ctx, e.quote)
	if err != nil {
		return nil, fmt.Errorf("check balance: %w", err)
	}
	if balance.LessThan(intent.Notional) {
		logger.Warning(fmt.Sprintf("余额不足，放弃买入 %s: 余额=%s 需要=%s",
			intent.TradingPair.String(), balance.String(), intent.Notional.String()))
		return nil, ErrInsufficientBalance
	}

	// 排队期间别的买入可能已经把持仓数顶满
	if e.maxPositions > 0 {
		positions, err := e.client.GetPositions(ctx, e.quote)
		if err != nil {
			return nil, fmt.Errorf("check positions: %w", err)
		}
		held := 0
		for _, pos := range positions {
			if pos.Quantity.GreaterThan(e.dust) {
				held++
			}
		}
		if held >= e.maxPositions {
			logger.Warning(fmt.Sprintf("持仓已满(%d)，放弃买入 %s", held, intent.TradingPair.String()))
			return nil, ErrPositionCapReached
		}
	}

	result, err := e.client.Buy(ctx, cex.BuyOrderRequest{
		TradingPair: intent.TradingPair,
		Type:        intent.Type,
		Notional:    intent.Notional,
		Quantity:    intent.Quantity,
		Price:       intent.Price,
	})
	if err != nil {
		logger.Error(fmt.Sprintf("买入失败 %s: %v", intent.TradingPair.String(), err))
		return nil, fmt.Errorf("submit buy: %w", err)
	}

	logger.Info(fmt.Sprintf("买入成交 %s: 金额=%s 原因=%s",
		intent.TradingPair.String(), intent.Notional.String(), intent.Reason))

	e.record(ctx, intent, result, decimal.Zero, decimal.Zero)
	return &Fill{Order: result}, nil
}

func (e *LiveExecutor) executeSell(ctx context.Context, intent Intent) (*Fill, error) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Executor")

	// 排队期间持仓可能已经被别的订单清掉
	held, err := e.client.GetBalance(ctx, intent.TradingPair.Base)
	if err != nil {
		return nil, fmt.Errorf("check position: %w", err)
	}
	if held.LessThanOrEqual(e.dust) {
		logger.Warning(fmt.Sprintf("持仓已不存在，放弃卖出 %s", intent.TradingPair.String()))
		return nil, ErrPositionGone
	}

	quantity := intent.Quantity
	if held.LessThan(quantity) {
		quantity = held
	}

	result, err := e.client.Sell(ctx, cex.SellOrderRequest{
		TradingPair: intent.TradingPair,
		Type:        intent.Type,
		Quantity:    quantity,
		Price:       intent.Price,
	})
	if err != nil {
		logger.Error(fmt.Sprintf("卖出失败 %s: %v", intent.TradingPair.String(), err))
		return nil, fmt.Errorf("submit sell: %w", err)
	}

	pnl, pnlPct := realizedPnL(intent, result, quantity)
	logger.Info(fmt.Sprintf("卖出成交 %s: 数量=%s 盈亏=%s(%s%%) 原因=%s",
		intent.TradingPair.String(), quantity.String(),
		pnl.StringFixed(4), pnlPct.Mul(decimal.NewFromInt(100)).StringFixed(2), intent.Reason))

	e.record(ctx, intent, result, pnl, pnlPct)
	return &Fill{Order: result, PnL: pnl, PnLPct: pnlPct}, nil
}

// realizedPnL 按成交价和成本计算已实现盈亏
// 成本未知（为零）时盈亏记为零
func realizedPnL(intent Intent, result *cex.OrderResult, quantity decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if intent.CostBasis.IsZero() {
		return decimal.Zero, decimal.Zero
	}

	price := result.Price
	if price.IsZero() {
		price = intent.Price
	}
	if price.IsZero() {
		return decimal.Zero, decimal.Zero
	}

	pnl := price.Sub(intent.CostBasis).Mul(quantity)
	pnlPct := price.Div(intent.CostBasis).Sub(decimal.NewFromInt(1))
	return pnl, pnlPct
}

// record 写成交流水，失败只记日志不影响交易
func (e *LiveExecutor) record(ctx context.Context, intent Intent, result *cex.OrderResult, pnl, pnlPct decimal.Decimal) {
	if e.journal == nil {
		return
	}

	_, logger := log.WithCtx(ctx)

	price := result.Price
	if price.IsZero() {
		price = intent.Price
	}
	notional := intent.Notional
	if notional.IsZero() && !price.IsZero() {
		notional = price.Mul(result.Quantity)
	}

	err := e.journal.SaveTrade(ctx, &TradeRecord{
		TradingPair: intent.TradingPair.String(),
		Side:        string(intent.Side),
		Type:        string(intent.Type),
		Quantity:    result.Quantity,
		Price:       price,
		Notional:    notional,
		PnL:         pnl,
		PnLPct:      pnlPct,
		Reason:      intent.Reason,
		TradeTime:   result.TransactTime,
	})
	if err != nil {
		logger.Warning(fmt.Sprintf("写成交流水失败: %v", err))
	}
}
