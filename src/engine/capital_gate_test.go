package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCapitalGate_InitiallyOpen(t *testing.T) {
	// 初始状态放行一次，保证启动后第一轮买入能进行
	gate := NewCapitalGate()
	assert.True(t, gate.Wait(context.Background()))
}

func TestCapitalGate_SignalBeforeWait(t *testing.T) {
	// 先发的信号不会丢失
	gate := NewCapitalGate()
	gate.Wait(context.Background())

	gate.Signal()
	assert.True(t, gate.Wait(context.Background()))
}

func TestCapitalGate_SignalsCoalesce(t *testing.T) {
	// 连续多次信号合并为一次放行
	gate := NewCapitalGate()
	gate.Wait(context.Background())

	gate.Signal()
	gate.Signal()
	gate.Signal()

	assert.True(t, gate.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.False(t, gate.Wait(ctx))
}

func TestCapitalGate_WakesBlockedWaiter(t *testing.T) {
	gate := NewCapitalGate()
	gate.Wait(context.Background())

	woke := make(chan bool, 1)
	go func() {
		woke <- gate.Wait(context.Background())
	}()

	time.Sleep(10 * time.Millisecond)
	gate.Signal()

	select {
	case ok := <-woke:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken by signal")
	}
}

func TestCapitalGate_CancelledContext(t *testing.T) {
	gate := NewCapitalGate()
	gate.Wait(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, gate.Wait(ctx))
}
