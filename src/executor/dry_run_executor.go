package executor

import (
	"context"
	"fmt"
	"time"

	"scantrader/src/cex"

	"github.com/xpwu/go-log/log"
)

// DryRunExecutor 只记录决策不真实下单的执行器
// 未开通交易权限时替代LiveExecutor，意图照常进出队列，成交回报按意图本身回填
type DryRunExecutor struct{}

// NewDryRunExecutor 创建只记录决策的执行器
func NewDryRunExecutor() *DryRunExecutor {
	return &DryRunExecutor{}
}

// Execute 打印决策日志并返回模拟成交
func (e *DryRunExecutor) Execute(ctx context.Context, intent Intent) (*Fill, error) {
	_, logger := log.WithCtx(ctx)
	logger.PushPrefix("DryRun")

	switch intent.Side {
	case cex.OrderSideBuy:
		logger.Info(fmt.Sprintf("模拟买入 %s: 金额=%s 原因=%s",
			intent.TradingPair.String(), intent.Notional.String(), intent.Reason))
	case cex.OrderSideSell:
		logger.Info(fmt.Sprintf("模拟卖出 %s: 数量=%s 原因=%s",
			intent.TradingPair.String(), intent.Quantity.String(), intent.Reason))
	default:
		return nil, fmt.Errorf("unknown order side: %s", intent.Side)
	}

	return &Fill{Order: &cex.OrderResult{
		TradingPair:  intent.TradingPair,
		Side:         intent.Side,
		Type:         intent.Type,
		Quantity:     intent.Quantity,
		Price:        intent.Price,
		Status:       "DRY_RUN",
		TransactTime: time.Now(),
	}}, nil
}
