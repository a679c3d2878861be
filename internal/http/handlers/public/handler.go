package public

import "github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/provider"

// Handler 用户侧与公开接口处理器入口
// 说明：推广者自助、注册登录与计费回调都走这里，管理端见 admin 包。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
