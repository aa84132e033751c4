package executor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"scantrader/src/cex"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExecutor struct {
	mu    sync.Mutex
	calls []Intent
	err   error
}

func (s *stubExecutor) Execute(ctx context.Context, intent Intent) (*Fill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, intent)
	if s.err != nil {
		return nil, s.err
	}
	return &Fill{Order: &cex.OrderResult{TradingPair: intent.TradingPair}}, nil
}

func (s *stubExecutor) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func buyIntent(base string) Intent {
	return Intent{
		TradingPair: pairOf(base),
		Side:        cex.OrderSideBuy,
		Type:        cex.OrderTypeMarket,
		Notional:    decimal.NewFromInt(5500),
	}
}

func TestDispatchQueue_DedupSamePair(t *testing.T) {
	// 同一交易对重复入队只保留第一个意图
	stub := &stubExecutor{}
	queue := NewDispatchQueue(stub, 8, nil)

	ctx := context.Background()
	assert.True(t, queue.Enqueue(ctx, buyIntent("BTC")))
	assert.False(t, queue.Enqueue(ctx, buyIntent("BTC")))
	assert.True(t, queue.Enqueue(ctx, buyIntent("ETH")))

	runCtx, cancel := context.WithCancel(ctx)
	go queue.Run(runCtx)

	assert.Eventually(t, func() bool { return stub.callCount() == 2 },
		time.Second, 5*time.Millisecond)
	cancel()
}

func TestDispatchQueue_ReleasesAfterExecution(t *testing.T) {
	// 执行完成后同一交易对可以再次入队
	stub := &stubExecutor{}
	queue := NewDispatchQueue(stub, 8, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go queue.Run(ctx)

	require.True(t, queue.Enqueue(ctx, buyIntent("BTC")))
	require.Eventually(t, func() bool { return !queue.Pending("BTC/USDT") },
		time.Second, 5*time.Millisecond)

	assert.True(t, queue.Enqueue(ctx, buyIntent("BTC")))
}

func TestDispatchQueue_FailureReleases(t *testing.T) {
	// 执行失败释放占位，允许下一轮重新发起
	stub := &stubExecutor{err: errors.New("exchange rejected")}
	queue := NewDispatchQueue(stub, 8, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go queue.Run(ctx)

	require.True(t, queue.Enqueue(ctx, buyIntent("BTC")))
	assert.Eventually(t, func() bool { return !queue.Pending("BTC/USDT") },
		time.Second, 5*time.Millisecond)
}

func TestDispatchQueue_FullQueueDrops(t *testing.T) {
	// 队列满时丢弃意图并释放占位
	stub := &stubExecutor{}
	queue := NewDispatchQueue(stub, 1, nil)

	ctx := context.Background()
	assert.True(t, queue.Enqueue(ctx, buyIntent("BTC")))
	assert.False(t, queue.Enqueue(ctx, buyIntent("ETH")))
	assert.False(t, queue.Pending("ETH/USDT"))
}

func TestDispatchQueue_FillHandler(t *testing.T) {
	stub := &stubExecutor{}
	var mu sync.Mutex
	var fills []Intent
	queue := NewDispatchQueue(stub, 8, func(intent Intent, fill *Fill) {
		mu.Lock()
		fills = append(fills, intent)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go queue.Run(ctx)

	require.True(t, queue.Enqueue(ctx, buyIntent("BTC")))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(fills) == 1
	}, time.Second, 5*time.Millisecond)
}
