package errs

import "errors"

// 业务错误哨兵，供仓储/缓存/服务/HTTP 层统一判定
var (
	ErrNotFound            = errors.New("资源不存在")
	ErrEmptyCart           = errors.New("购物车为空")
	ErrInsufficientStock   = errors.New("库存不足")
	ErrInvalidCartItem     = errors.New("购物车数据无效")
	ErrInvalidStatusChange = errors.New("订单状态流转不合法")
)
