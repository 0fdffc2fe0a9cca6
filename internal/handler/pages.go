package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jbt-blog/internal/model"
	"jbt-blog/internal/pagination"
	"jbt-blog/internal/service"
)

// isAjax 无限滚动请求只需要文章列表片段
func isAjax(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}

func (h *Handler) page(data gin.H) gin.H {
	data["title"] = h.cfg.Blog.Title
	return data
}

func (h *Handler) renderList(c *gin.Context, heading, base string, page *pagination.Page[model.Article], err error) {
	if err != nil {
		h.pageError(c, err)
		return
	}
	data := h.page(gin.H{"heading": heading, "base": base, "page": page})
	if isAjax(c) {
		c.HTML(http.StatusOK, "post_list", data)
		return
	}
	c.HTML(http.StatusOK, "home.html", data)
}

// pageError 页面请求的错误处理,不存在的资源渲染404页
func (h *Handler) pageError(c *gin.Context, err error) {
	if service.IsNotFound(err) {
		h.NotFound(c)
		return
	}
	h.log.Error().Err(err).Str("request_id", requestID(c)).Str("path", c.Request.URL.Path).Msg("Render page failed")
	c.String(http.StatusInternalServerError, "服务器内部错误")
}

func (h *Handler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", h.page(gin.H{"heading": "页面不存在"}))
}

func (h *Handler) IndexPage(c *gin.Context) {
	page, err := h.articles.ListPublished(c.Request.Context(), c.Query("page"), h.cfg.Blog.PageSize)
	h.renderList(c, "", "/", page, err)
}

func (h *Handler) ArticlePage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	ctx := c.Request.Context()
	article, err := h.articles.GetPublished(ctx, id)
	if err != nil {
		h.pageError(c, err)
		return
	}
	if err := h.articles.Viewed(ctx, article); err != nil {
		h.pageError(c, err)
		return
	}

	next, err := h.articles.Next(ctx, article)
	if err != nil {
		h.pageError(c, err)
		return
	}
	prev, err := h.articles.Prev(ctx, article)
	if err != nil {
		h.pageError(c, err)
		return
	}

	c.HTML(http.StatusOK, "post.html", h.page(gin.H{
		"heading": article.Title,
		"article": article,
		"next":    next,
		"prev":    prev,
	}))
}

func (h *Handler) CategoryPage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}
	category, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		h.pageError(c, err)
		return
	}
	page, err := h.articles.ListByCategory(c.Request.Context(), id, c.Query("page"), h.cfg.Blog.PageSize)
	h.renderList(c, "分类:"+category.Name, service.CategoryURL(id), page, err)
}

func (h *Handler) TagPage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}
	tag, err := h.tags.Get(c.Request.Context(), id)
	if err != nil {
		h.pageError(c, err)
		return
	}
	page, err := h.articles.ListByTag(c.Request.Context(), id, c.Query("page"), h.cfg.Blog.PageSize)
	h.renderList(c, "标签:"+tag.Name, service.TagURL(id), page, err)
}

func (h *Handler) ArchivePage(c *gin.Context) {
	months, err := h.articles.Archive(c.Request.Context())
	if err != nil {
		h.pageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "archive.html", h.page(gin.H{"heading": "归档", "months": months}))
}

func (h *Handler) MonthPage(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		h.NotFound(c)
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		h.NotFound(c)
		return
	}

	m := service.ArchiveMonth{Year: year, Month: time.Month(month)}
	page, err := h.articles.ListByMonth(c.Request.Context(), year, m.Month, c.Query("page"), h.cfg.Blog.PageSize)
	h.renderList(c, strconv.Itoa(year)+" 年 "+strconv.Itoa(month)+" 月", m.URL(), page, err)
}
