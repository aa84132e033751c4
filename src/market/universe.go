package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"scantrader/src/cex"

	"github.com/xpwu/go-log/log"
)

// Universe 可交易对全集缓存
// 定期从交易所刷新，期间所有查询都走缓存快照
type Universe struct {
	client  cex.Client
	quote   string
	refresh time.Duration

	mu        sync.RWMutex
	pairs     []cex.TradingPair
	pairSet   map[string]struct{}
	refreshed time.Time
}

// NewUniverse 创建交易对全集缓存
func NewUniverse(client cex.Client, quote string, refresh time.Duration) *Universe {
	return &Universe{
		client:  client,
		quote:   quote,
		refresh: refresh,
		pairSet: make(map[string]struct{}),
	}
}

// Refresh 立即从交易所拉取全集并替换缓存
func (u *Universe) Refresh(ctx context.Context) error {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Universe")

	pairs, err := u.client.GetTickers(ctx, u.quote)
	if err != nil {
		logger.Error(fmt.Sprintf("刷新交易对全集失败: %v", err))
		return fmt.Errorf("refresh universe: %w", err)
	}

	set := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		set[p.String()] = struct{}{}
	}

	u.mu.Lock()
	u.pairs = pairs
	u.pairSet = set
	u.refreshed = time.Now()
	u.mu.Unlock()

	logger.Info(fmt.Sprintf("交易对全集已刷新: %d个交易对", len(pairs)))
	return nil
}

// Pairs 获取当前全集快照
// 过期时先刷新，刷新失败则继续使用旧快照
func (u *Universe) Pairs(ctx context.Context) []cex.TradingPair {
	u.mu.RLock()
	stale := time.Since(u.refreshed) >= u.refresh
	pairs := u.pairs
	u.mu.RUnlock()

	if stale {
		if err := u.Refresh(ctx); err == nil {
			u.mu.RLock()
			pairs = u.pairs
			u.mu.RUnlock()
		}
	}

	out := make([]cex.TradingPair, len(pairs))
	copy(out, pairs)
	return out
}

// Contains 判断交易对是否属于当前全集
func (u *Universe) Contains(pair cex.TradingPair) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	_, ok := u.pairSet[pair.String()]
	return ok
}

// Size 获取全集大小
func (u *Universe) Size() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.pairs)
}
