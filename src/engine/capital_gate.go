package engine

import "context"

// CapitalGate 资金闸门
// 买入循环在闸门上等待，卖出成交后发信号放行
// 容量为1的通道保证先发的信号不会丢失，重复信号合并为一次
type CapitalGate struct {
	ch chan struct{}
}

// NewCapitalGate 创建资金闸门，初始为放行状态
func NewCapitalGate() *CapitalGate {
	g := &CapitalGate{ch: make(chan struct{}, 1)}
	g.Signal()
	return g
}

// Signal 发出放行信号，从不阻塞
func (g *CapitalGate) Signal() {
	select {
	case g.ch <- struct{}{}:
	default:
	}
}

// Wait 等待放行信号，消费掉信号后返回true
// 上下文取消时返回false
func (g *CapitalGate) Wait(ctx context.Context) bool {
	select {
	case <-g.ch:
		return true
	case <-ctx.Done():
		return false
	}
}
