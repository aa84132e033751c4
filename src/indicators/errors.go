package indicators

import "errors"

var (
	// ErrInsufficientData 数据不足错误
	// K线序列长度不够计算窗口时返回该错误，调用方按"指标未定义"处理，绝不panic
	ErrInsufficientData = errors.New("insufficient data for calculation")

	// ErrInvalidPeriod 无效周期错误
	ErrInvalidPeriod = errors.New("invalid period, must be greater than 0")
)
