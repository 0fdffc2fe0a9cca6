package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jbt-blog/internal/markdown"
	"jbt-blog/web"
)

// NewRouter 创建gin引擎,加载内嵌模板与静态资源并注册路由
func NewRouter(h *Handler, log zerolog.Logger) (*gin.Engine, error) {
	r := gin.New()

	r.Use(requestIDMiddleware())
	r.Use(recoveryMiddleware(log))
	r.Use(loggingMiddleware(log))

	tmpl, err := web.Templates(markdown.FuncMap(h.cfg.Blog.ExcerptLength))
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", web.Static())

	h.RegisterRoutes(r)
	r.NoRoute(h.NotFound)

	return r, nil
}
