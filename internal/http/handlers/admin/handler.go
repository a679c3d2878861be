package admin

import "github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/provider"

// Handler 后台管理接口处理器入口
// 说明：该处理器仅用于管理端 API，佣金冲销与提现处理也在这里。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
