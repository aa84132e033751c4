package screener

import (
	"math/rand"
	"time"

	"scantrader/src/cex"
)

// Picker 从候选集中选出最终买入目标
type Picker interface {
	// Pick 选择一个交易对，候选集为空时第二个返回值为false
	Pick(candidates []cex.TradingPair) (cex.TradingPair, bool)
}

// RandomPicker 等概率随机选择
type RandomPicker struct {
	rng *rand.Rand
}

// NewRandomPicker 创建随机选择器
func NewRandomPicker() *RandomPicker {
	return &RandomPicker{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededPicker 创建固定种子的随机选择器，用于需要可复现的场合
func NewSeededPicker(seed int64) *RandomPicker {
	return &RandomPicker{rng: rand.New(rand.NewSource(seed))}
}

// Pick 随机选择一个候选
func (p *RandomPicker) Pick(candidates []cex.TradingPair) (cex.TradingPair, bool) {
	if len(candidates) == 0 {
		return cex.TradingPair{}, false
	}
	return candidates[p.rng.Intn(len(candidates))], true
}
