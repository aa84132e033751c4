package cmd

import (
	"context"
	"fmt"
	"time"

	"scantrader/src/cex"
	"scantrader/src/config"

	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"
)

// RegisterPingCmd 注册连通性测试命令
func RegisterPingCmd() {
	var timeout int

	cmd.RegisterCmd("ping", "test connectivity to the exchange API", func(args *arg.Arg) {
		args.Int(&timeout, "t", "timeout in seconds (default: 10)")
		args.Parse()

		if timeout <= 0 {
			timeout = 10
		}

		if err := runPing(timeout); err != nil {
			fmt.Printf("❌ Ping失败: %v\n", err)
			return
		}
		fmt.Println("✅ Ping成功!")
	})
}

// runPing 执行连通性测试
func runPing(timeoutSeconds int) error {
	client, err := cex.CreateClient(config.AppConfig.CEXName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	fmt.Printf("🌐 测试 %s 连通性...", client.GetName())
	start := time.Now()

	if err := client.Ping(ctx); err != nil {
		fmt.Println()
		return err
	}

	fmt.Printf(" 完成! (延迟: %v)\n", time.Since(start))
	return nil
}
