package cmd

import (
	"context"
	"fmt"
	"time"

	"scantrader/src/cex"
	"scantrader/src/config"
	"scantrader/src/market"
	"scantrader/src/scanner"
	"scantrader/src/screener"

	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"
)

// RegisterScanCmd 注册单轮筛选命令
func RegisterScanCmd() {
	var verbose bool

	cmd.RegisterCmd("scan", "run one screening round and print candidates", func(args *arg.Arg) {
		args.Bool(&verbose, "v", "verbose output with universe size")
		args.Parse()

		if err := runScan(verbose); err != nil {
			fmt.Printf("❌ 筛选失败: %v\n", err)
			return
		}
	})
}

// runScan 跑一轮筛选管道并打印结果
func runScan(verbose bool) error {
	cfg := config.AppConfig

	client, err := cex.CreateClient(cfg.CEXName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Printf("📊 候选筛选测试\n")
	fmt.Printf("================================\n")
	fmt.Printf("🔸 交易所: %s\n", client.GetName())
	fmt.Printf("🔸 计价货币: %s\n", cfg.Trading.QuoteAsset)
	fmt.Printf("🔸 成交额排名: 前%d (%s)\n", cfg.Screener.VolumeTopN, cfg.Screener.VolumeTimeframe)
	fmt.Printf("🔸 动量阈值: %.2f%%(%s) / %.2f%%(%s)\n",
		cfg.Screener.MomentumThreshold*100, cfg.Screener.MomentumTimeframe,
		cfg.Screener.FineThreshold*100, cfg.Screener.FineTimeframe)
	fmt.Println()

	universe := market.NewUniverse(client, cfg.Trading.QuoteAsset,
		time.Duration(cfg.Market.UniverseRefreshMin)*time.Minute)
	if err := universe.Refresh(ctx); err != nil {
		return err
	}
	if verbose {
		fmt.Printf("🌍 交易对全集: %d个\n", universe.Size())
	}

	fetcher := scanner.NewFetcher(client, cfg.Scanner.Retries,
		time.Duration(cfg.Scanner.RetryDelaySec)*time.Second)
	sc := scanner.NewScanner(fetcher, cfg.Scanner.Workers)
	pipeline := screener.NewPipeline(sc, universe, cfg.Screener)

	fmt.Print("🔄 正在筛选...")
	start := time.Now()
	candidates := pipeline.Candidates(ctx)
	fmt.Printf(" 完成! (耗时: %v)\n\n", time.Since(start))

	if len(candidates) == 0 {
		fmt.Println("本轮没有交易对通过全部筛选")
		return nil
	}

	fmt.Printf("✅ 通过筛选的候选 (%d个):\n", len(candidates))
	for i, pair := range candidates {
		fmt.Printf("  %d. %s\n", i+1, pair.String())
	}
	return nil
}
