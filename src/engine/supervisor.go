package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xpwu/go-log/log"
)

type supervised struct {
	name    string
	run     func(ctx context.Context)
	running bool
}

// Supervisor 循环监护
// 定期检查注册的循环是否存活，异常退出或panic的循环会被重新拉起
type Supervisor struct {
	interval time.Duration

	mu    sync.Mutex
	loops []*supervised
}

// NewSupervisor 创建监护器
func NewSupervisor(interval time.Duration) *Supervisor {
	return &Supervisor{interval: interval}
}

// Register 注册一个需要监护的循环
func (s *Supervisor) Register(name string, run func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loops = append(s.loops, &supervised{name: name, run: run})
}

func (s *Supervisor) start(ctx context.Context, loop *supervised) {
	loop.running = true

	go func() {
		_, logger := log.WithCtx(ctx)
		logger.PushPrefix("Supervisor")

		defer func() {
			if r := recover(); r != nil {
				logger.Error(fmt.Sprintf("循环panic %s: %v", loop.name, r))
			}
			s.mu.Lock()
			loop.running = false
			s.mu.Unlock()
		}()

		logger.Info(fmt.Sprintf("启动循环: %s", loop.name))
		loop.run(ctx)
	}()
}

// Run 启动全部循环并持续监护，直到上下文取消
// 每个检查周期把已死亡的循环重新拉起
func (s *Supervisor) Run(ctx context.Context) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Supervisor")

	s.mu.Lock()
	for _, loop := range s.loops {
		s.start(ctx, loop)
	}
	s.mu.Unlock()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("监护退出")
			return
		case <-ticker.C:
			s.mu.Lock()
			for _, loop := range s.loops {
				if !loop.running {
					logger.Warning(fmt.Sprintf("循环已死亡，重新拉起: %s", loop.name))
					s.start(ctx, loop)
				}
			}
			s.mu.Unlock()
		}
	}
}
