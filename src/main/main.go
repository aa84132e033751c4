package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tradercmd "scantrader/src/cmd"
	"scantrader/src/config"

	"github.com/xpwu/go-cmd/cmd"
	"github.com/xpwu/go-config/configs"
	"github.com/xpwu/go-log/log"
)

func main() {
	configs.SetConfigurator(&configs.JsonConfig{})
	useBinDirConfig()

	// 配置缺失时落一份默认config.json再退出，方便首次部署
	if err := configs.ReadWithErr(); err != nil {
		if printErr := configs.Print(); printErr != nil {
			panic(fmt.Sprintf("读取配置失败(%v)，生成默认配置也失败: %v", err, printErr))
		}
		panic("已生成默认 config.json，修改后重新运行")
	}
	if err := config.AppConfig.Validate(); err != nil {
		panic("配置验证失败: " + err.Error())
	}

	_, logger := log.WithCtx(context.Background())
	logger.PushPrefix("ScanTrader")
	logger.Info("市场扫描交易机器人启动")

	tradercmd.RegisterAllCommands()
	cmd.Run()
}

// useBinDirConfig 部署时config.json跟可执行文件放在同一目录
// 那里有配置就切过去读，否则维持当前目录不动
func useBinDirConfig() {
	execPath, err := os.Executable()
	if err != nil {
		return
	}
	execDir := filepath.Dir(execPath)
	if _, err := os.Stat(filepath.Join(execDir, "config.json")); err == nil {
		os.Chdir(execDir)
	}
}
