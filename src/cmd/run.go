package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"scantrader/src/cex/binance"
	"scantrader/src/config"
	"scantrader/src/engine"

	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"
	"github.com/xpwu/go-log/log"
)

// RegisterRunCmd 注册交易引擎启动命令
func RegisterRunCmd() {
	cmd.RegisterCmd("run", "run the market scanning trading engine", func(args *arg.Arg) {
		args.Parse()

		if err := runEngine(); err != nil {
			fmt.Printf("❌ 交易引擎退出: %v\n", err)
			os.Exit(1)
		}
	})
}

// runEngine 启动交易引擎并等待退出信号
func runEngine() error {
	// 真实下单前必须配置API密钥
	if binance.ConfigValue.EnableTrading {
		if binance.ConfigValue.APIKey == "" || binance.ConfigValue.SecretKey == "" {
			return fmt.Errorf("enable_trading requires api_key and secret_key")
		}
	}
	if !binance.ConfigValue.EnableTrading || binance.ConfigValue.ReadOnly {
		fmt.Println("⚠️ 未开通交易权限，只会产生决策日志，不会真实下单")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Run")

	eng, err := engine.NewTradingEngine(ctx, config.AppConfig)
	if err != nil {
		return err
	}

	// 收到退出信号后取消上下文，循环与队列随之退出
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigC
		logger.Info(fmt.Sprintf("收到退出信号: %v", sig))
		cancel()
	}()

	fmt.Println("🚀 交易引擎启动，Ctrl+C 退出")
	return eng.Run(ctx)
}
