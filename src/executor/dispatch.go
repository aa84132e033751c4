package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/xpwu/go-log/log"
)

// FillHandler 成交回调，在订单执行成功后调用
type FillHandler func(intent Intent, fill *Fill)

// DispatchQueue 订单派发队列
// 同一交易对同一时刻只允许一个意图在排队或执行中，重复入队是无害的空操作
type DispatchQueue struct {
	executor Executor
	queue    chan Intent
	onFill   FillHandler

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewDispatchQueue 创建派发队列
func NewDispatchQueue(exec Executor, size int, onFill FillHandler) *DispatchQueue {
	if size <= 0 {
		size = 1
	}
	return &DispatchQueue{
		executor: exec,
		queue:    make(chan Intent, size),
		onFill:   onFill,
		pending:  make(map[string]struct{}),
	}
}

// Enqueue 提交订单意图
// 该交易对已有意图在排队或执行中、或队列已满时返回false
func (q *DispatchQueue) Enqueue(ctx context.Context, intent Intent) bool {
	_, logger := log.WithCtx(ctx)
	key := intent.TradingPair.String()

	q.mu.Lock()
	if _, exists := q.pending[key]; exists {
		q.mu.Unlock()
		return false
	}
	q.pending[key] = struct{}{}
	q.mu.Unlock()

	select {
	case q.queue <- intent:
		return true
	default:
		q.release(key)
		logger.Warning(fmt.Sprintf("派发队列已满，丢弃 %s %s", intent.Side, key))
		return false
	}
}

// Pending 判断交易对是否有意图在排队或执行中
func (q *DispatchQueue) Pending(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, exists := q.pending[key]
	return exists
}

func (q *DispatchQueue) release(key string) {
	q.mu.Lock()
	delete(q.pending, key)
	q.mu.Unlock()
}

// Run 消费队列直到上下文取消
// 执行失败只记日志并释放占位，由下一轮决策重新发起
func (q *DispatchQueue) Run(ctx context.Context) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Dispatch")
	logger.Info("派发队列已启动")

	for {
		select {
		case <-ctx.Done():
			logger.Info("派发队列退出")
			return
		case intent := <-q.queue:
			key := intent.TradingPair.String()
			fill, err := q.executor.Execute(ctx, intent)
			q.release(key)
			if err != nil {
				logger.Warning(fmt.Sprintf("执行失败 %s %s: %v", intent.Side, key, err))
				continue
			}
			if q.onFill != nil {
				q.onFill(intent, fill)
			}
		}
	}
}
