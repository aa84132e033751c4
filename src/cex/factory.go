package cex

import (
	"fmt"
)

// Factory CEX工厂接口
type Factory interface {
	CreateClient() Client
}

// FactoryRegistry CEX工厂注册表
var FactoryRegistry = make(map[string]Factory)

// RegisterFactory 注册CEX工厂
func RegisterFactory(name string, factory Factory) {
	FactoryRegistry[name] = factory
}

// CreateClient 创建CEX客户端
func CreateClient(cexName string) (Client, error) {
	factory, exists := FactoryRegistry[cexName]
	if !exists {
		return nil, fmt.Errorf("unsupported CEX: %s", cexName)
	}

	return factory.CreateClient(), nil
}

// GetSupportedCEXes 获取支持的CEX列表
func GetSupportedCEXes() []string {
	var cexes []string
	for name := range FactoryRegistry {
		cexes = append(cexes, name)
	}
	return cexes
}
