package access

import (
	"context"
)

// Handler 执行一次查询，三种后端的调用方都通过它串起中间件
type Handler interface {
	QueryHandler(ctx context.Context, qc *QueryContext) (*QueryResult, error)
}

// Middleware 中间件定义
type Middleware func(Handler) Handler

// BuildChain 构建处理器调用链，先添加的中间件先执行
func BuildChain(core Handler, ms []Middleware) Handler {
	h := core
	for i := len(ms) - 1; i >= 0; i-- {
		h = ms[i](h)
	}
	return h
}

// HandlerFunc 用于将函数转换为 Handler 接口
type HandlerFunc func(ctx context.Context, qc *QueryContext) (*QueryResult, error)

func (h HandlerFunc) QueryHandler(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
	return h(ctx, qc)
}
