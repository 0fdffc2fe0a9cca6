package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"jbt-blog/internal/model"
)

type StatusService struct {
	db *gorm.DB
}

type CategoryCount struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	ArticleCount int64  `json:"article_count"`
}

type SystemStatus struct {
	// 文章统计
	TotalArticles     int64 `json:"total_articles"`
	PublishedArticles int64 `json:"published_articles"`
	DraftArticles     int64 `json:"draft_articles"`
	TotalViews        int64 `json:"total_views"`

	// 分类与标签
	TotalCategories int64           `json:"total_categories"`
	TotalTags       int64           `json:"total_tags"`
	Categories      []CategoryCount `json:"categories"`

	// 导入源统计
	TotalFeeds   int64 `json:"total_feeds"`
	EnabledFeeds int64 `json:"enabled_feeds"`

	// 定时导入
	NextImportTime time.Time `json:"next_import_time"`
}

func NewStatusService(db *gorm.DB) *StatusService {
	return &StatusService{db: db}
}

// GetSystemStatus 获取内容统计
func (s *StatusService) GetSystemStatus(ctx context.Context) (*SystemStatus, error) {
	db := s.db.WithContext(ctx)
	status := &SystemStatus{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&status.TotalArticles, db.Model(&model.Article{})},
		{&status.PublishedArticles, db.Model(&model.Article{}).Where("status = ?", model.StatusPublished)},
		{&status.DraftArticles, db.Model(&model.Article{}).Where("status = ?", model.StatusDraft)},
		{&status.TotalCategories, db.Model(&model.Category{})},
		{&status.TotalTags, db.Model(&model.Tag{})},
		{&status.TotalFeeds, db.Model(&model.Feed{})},
		{&status.EnabledFeeds, db.Model(&model.Feed{}).Where("enabled = ?", true)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
	}

	if err := db.Model(&model.Article{}).Select("COALESCE(SUM(views), 0)").Scan(&status.TotalViews).Error; err != nil {
		return nil, fmt.Errorf("sum views: %w", err)
	}

	err := db.Table("category").
		Select("category.id AS id, category.name AS name, COUNT(article.id) AS article_count").
		Joins("LEFT JOIN article ON article.category_id = category.id").
		Group("category.id, category.name").
		Order("category.name").
		Scan(&status.Categories).Error
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}

	return status, nil
}
