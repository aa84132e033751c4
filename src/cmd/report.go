package cmd

import (
	"context"
	"fmt"
	"time"

	"scantrader/src/database"

	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"
)

// RegisterReportCmd 注册成交统计命令
func RegisterReportCmd() {
	var hours int

	cmd.RegisterCmd("report", "print trade journal summary", func(args *arg.Arg) {
		args.Int(&hours, "h", "look back hours (default: 24)")
		args.Parse()

		if hours <= 0 {
			hours = 24
		}

		if err := runReport(hours); err != nil {
			fmt.Printf("❌ 统计失败: %v\n", err)
			return
		}
	})
}

// runReport 打印指定时间范围内的成交统计
func runReport(hours int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := database.Open(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	summary, err := store.Summarize(ctx, since)
	if err != nil {
		return err
	}

	fmt.Printf("📈 成交统计 (最近%d小时)\n", hours)
	fmt.Printf("================================\n")
	fmt.Printf("🔸 成交总数: %d\n", summary.Trades)
	fmt.Printf("🔸 买入: %d\n", summary.BuyCount)
	fmt.Printf("🔸 卖出: %d\n", summary.SellCount)
	fmt.Printf("🔸 已实现盈亏: %s\n", summary.TotalPnL.StringFixed(4))
	return nil
}
