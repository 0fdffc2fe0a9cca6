package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"jbt-blog/config"
	"jbt-blog/internal/model"
	"jbt-blog/internal/service"
)

type Handler struct {
	articles   *service.ArticleService
	categories *service.CategoryService
	tags       *service.TagService
	tagCloud   *service.TagCloudService
	feed       *service.FeedService
	status     *service.StatusService
	cfg        *config.Config
	log        zerolog.Logger
	scheduler  interface {
		GetNextFetchTime() time.Time
	}
}

func NewHandler(db *gorm.DB, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{
		articles:   service.NewArticleService(db),
		categories: service.NewCategoryService(db),
		tags:       service.NewTagService(db),
		tagCloud:   service.NewTagCloudService(db),
		feed:       service.NewFeedService(db, log),
		status:     service.NewStatusService(db),
		cfg:        cfg,
		log:        log,
	}
}

// SetScheduler 设置调度器引用
func (h *Handler) SetScheduler(scheduler interface {
	GetNextFetchTime() time.Time
}) {
	h.scheduler = scheduler
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// 页面
	r.GET("/", h.IndexPage)
	r.GET("/article/:id/", h.ArticlePage)
	r.GET("/category/:id/", h.CategoryPage)
	r.GET("/tag/:id/", h.TagPage)
	r.GET("/archive/", h.ArchivePage)
	r.GET("/archive/:year/:month/", h.MonthPage)

	// API
	r.GET("/api/tagcloud/", h.TagCloud)
	r.GET("/health", h.Health)

	// 后台接口,未配置密码时不开放
	if !h.cfg.AdminEnabled() {
		h.log.Warn().Msg("Admin password not set, admin API disabled")
		return
	}
	admin := r.Group("/admin/api", gin.BasicAuth(gin.Accounts{
		h.cfg.Admin.Username: h.cfg.Admin.Password,
	}))
	{
		// Articles
		admin.GET("/articles", h.ListArticles)
		admin.POST("/articles", h.CreateArticle)
		admin.GET("/articles/:id", h.GetArticle)
		admin.PUT("/articles/:id", h.UpdateArticle)
		admin.DELETE("/articles/:id", h.DeleteArticle)

		// Categories
		admin.GET("/categories", h.ListCategories)
		admin.POST("/categories", h.CreateCategory)
		admin.PUT("/categories/:id", h.RenameCategory)
		admin.DELETE("/categories/:id", h.DeleteCategory)

		// Tags
		admin.GET("/tags", h.ListTags)
		admin.POST("/tags", h.CreateTag)
		admin.PUT("/tags/:id", h.RenameTag)
		admin.DELETE("/tags/:id", h.DeleteTag)

		// Feeds
		admin.GET("/feeds", h.ListFeeds)
		admin.POST("/feeds", h.CreateFeed)
		admin.PUT("/feeds/:id", h.UpdateFeed)
		admin.DELETE("/feeds/:id", h.DeleteFeed)
		admin.POST("/feeds/:id/fetch", h.FetchFeed)

		// Status
		admin.GET("/status", h.GetStatus)
	}
}

// pathID 解析路径中的正整数id
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// apiError 把服务层错误映射为HTTP状态码
func (h *Handler) apiError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidReference), errors.Is(err, model.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("request_id", requestID(c)).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
