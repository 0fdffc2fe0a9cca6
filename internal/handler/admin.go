package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jbt-blog/internal/model"
	"jbt-blog/internal/service"
)

type articleInput struct {
	Title      string              `json:"title" binding:"required,max=100"`
	Content    string              `json:"content"`
	Status     model.ArticleStatus `json:"status" binding:"omitempty,oneof=d p"`
	CategoryID *uint               `json:"category_id"`
	PubTime    *time.Time          `json:"pub_time"`
	// TagIDs与Tags都为空时保留原有标签
	TagIDs []uint   `json:"tag_ids"`
	Tags   []string `json:"tags"`
}

// feedInput 创建时enabled缺省为启用;更新时缺省字段保持不变
type feedInput struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=255"`
	URL     *string `json:"url" binding:"omitempty,url,max=500"`
	Enabled *bool   `json:"enabled"`
}

type nameInput struct {
	Name string `json:"name" binding:"required,max=64"`
}

// ===== Article相关 =====

func (h *Handler) ListArticles(c *gin.Context) {
	filter := service.AdminFilter{
		Query:  c.Query("q"),
		Status: model.ArticleStatus(c.Query("status")),
	}
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		filter.CategoryID = uint(id)
	}

	page, err := h.articles.Search(c.Request.Context(), filter, c.Query("page"), h.cfg.Blog.PageSize)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	article, err := h.articles.Get(c.Request.Context(), id)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func (h *Handler) CreateArticle(c *gin.Context) {
	var input articleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article := &model.Article{Status: input.Status}
	h.saveArticle(c, http.StatusCreated, article, input)
}

func (h *Handler) UpdateArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	var input articleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article, err := h.articles.Get(c.Request.Context(), id)
	if err != nil {
		h.apiError(c, err)
		return
	}
	if input.Status != "" {
		article.Status = input.Status
	}
	h.saveArticle(c, http.StatusOK, article, input)
}

func (h *Handler) saveArticle(c *gin.Context, code int, article *model.Article, input articleInput) {
	ctx := c.Request.Context()

	article.Title = input.Title
	article.Content = input.Content
	article.CategoryID = input.CategoryID
	if input.PubTime != nil {
		t := input.PubTime.UTC()
		article.PubTime = &t
	}

	var tagIDs []uint
	if input.TagIDs != nil || input.Tags != nil {
		tagIDs = append([]uint{}, input.TagIDs...)
		named, err := h.tags.FindOrCreate(ctx, input.Tags)
		if err != nil {
			h.apiError(c, err)
			return
		}
		tagIDs = append(tagIDs, named...)
	}

	if err := h.articles.Save(ctx, article, tagIDs); err != nil {
		h.apiError(c, err)
		return
	}

	saved, err := h.articles.Get(ctx, article.ID)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(code, saved)
}

func (h *Handler) DeleteArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err := h.articles.Delete(c.Request.Context(), id); err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// ===== Category相关 =====

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := h.categories.Create(c.Request.Context(), input.Name)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) RenameCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := h.categories.Rename(c.Request.Context(), id, input.Name)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory 分类下的文章保留,分类置空
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// ===== Tag相关 =====

func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *Handler) CreateTag(c *gin.Context) {
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tag, err := h.tags.Create(c.Request.Context(), input.Name)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *Handler) RenameTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
		return
	}
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tag, err := h.tags.Rename(c.Request.Context(), id, input.Name)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *Handler) DeleteTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
		return
	}
	if err := h.tags.Delete(c.Request.Context(), id); err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// ===== Feed相关 =====

func (h *Handler) ListFeeds(c *gin.Context) {
	feeds, err := h.feed.List(c.Request.Context())
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, feeds)
}

func (h *Handler) CreateFeed(c *gin.Context) {
	var input feedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Name == nil || input.URL == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and url are required"})
		return
	}

	feed := model.Feed{Enabled: true}
	input.apply(&feed)

	if err := h.feed.Create(c.Request.Context(), &feed); err != nil {
		h.apiError(c, err)
		return
	}

	c.JSON(http.StatusCreated, feed)
}

func (h *Handler) UpdateFeed(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "feed not found"})
		return
	}
	var input feedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feed, err := h.feed.Get(c.Request.Context(), id)
	if err != nil {
		h.apiError(c, err)
		return
	}
	input.apply(feed)

	if err := h.feed.Update(c.Request.Context(), feed); err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (in feedInput) apply(feed *model.Feed) {
	if in.Name != nil {
		feed.Name = *in.Name
	}
	if in.URL != nil {
		feed.URL = *in.URL
	}
	if in.Enabled != nil {
		feed.Enabled = *in.Enabled
	}
}

func (h *Handler) DeleteFeed(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "feed not found"})
		return
	}
	if err := h.feed.Delete(c.Request.Context(), id); err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) FetchFeed(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "feed not found"})
		return
	}
	feed, err := h.feed.Get(c.Request.Context(), id)
	if err != nil {
		h.apiError(c, err)
		return
	}

	count, err := h.feed.FetchFeed(c.Request.Context(), feed)
	if err != nil {
		// 抓取失败多为源站问题
		h.log.Warn().Err(err).Uint("feed_id", feed.ID).Str("request_id", requestID(c)).Msg("Fetch feed failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"new_articles": count})
}

// ===== Status相关 =====

func (h *Handler) GetStatus(c *gin.Context) {
	status, err := h.status.GetSystemStatus(c.Request.Context())
	if err != nil {
		h.apiError(c, err)
		return
	}

	// 添加定时任务信息
	if h.scheduler != nil {
		status.NextImportTime = h.scheduler.GetNextFetchTime()
	}

	c.JSON(http.StatusOK, status)
}
