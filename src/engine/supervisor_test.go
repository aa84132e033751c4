package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSupervisor_RestartsDeadLoop(t *testing.T) {
	// 立即退出的循环会被反复拉起
	var starts atomic.Int32
	supervisor := NewSupervisor(10 * time.Millisecond)
	supervisor.Register("flaky", func(ctx context.Context) {
		starts.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go supervisor.Run(ctx)

	assert.Eventually(t, func() bool { return starts.Load() >= 3 },
		time.Second, 5*time.Millisecond)
}

func TestSupervisor_RestartsAfterPanic(t *testing.T) {
	// panic的循环同样会被拉起，panic不能带崩进程
	var starts atomic.Int32
	supervisor := NewSupervisor(10 * time.Millisecond)
	supervisor.Register("panicky", func(ctx context.Context) {
		starts.Add(1)
		panic("boom")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go supervisor.Run(ctx)

	assert.Eventually(t, func() bool { return starts.Load() >= 2 },
		time.Second, 5*time.Millisecond)
}

func TestSupervisor_HealthyLoopNotRestarted(t *testing.T) {
	// 存活的循环不受检查影响
	var starts atomic.Int32
	supervisor := NewSupervisor(10 * time.Millisecond)
	supervisor.Register("healthy", func(ctx context.Context) {
		starts.Add(1)
		<-ctx.Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go supervisor.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), starts.Load())
}

func TestSupervisor_StopsOnCancel(t *testing.T) {
	supervisor := NewSupervisor(10 * time.Millisecond)
	supervisor.Register("loop", func(ctx context.Context) {
		<-ctx.Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		supervisor.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("supervisor did not stop on cancel")
	}
}
