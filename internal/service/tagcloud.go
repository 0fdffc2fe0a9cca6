package service

import (
	"context"
	"fmt"
	"math"

	"gorm.io/gorm"

	"jbt-blog/internal/model"
)

const (
	DefaultTagCloudLimit = 30
	minTagSize           = 1
	maxTagSize           = 5
)

type TagCloudItem struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Size  int    `json:"size"`
	Count int64  `json:"count"`
	URL   string `json:"url"`
}

type TagCloudService struct {
	db *gorm.DB
}

func NewTagCloudService(db *gorm.DB) *TagCloudService {
	return &TagCloudService{db: db}
}

type tagUsage struct {
	ID           uint
	Name         string
	ArticleCount int64
}

// Build 取已发表文章使用最多的limit个标签,按使用次数线性映射字号
func (s *TagCloudService) Build(ctx context.Context, limit int) ([]TagCloudItem, error) {
	if limit <= 0 {
		limit = DefaultTagCloudLimit
	}

	var rows []tagUsage
	err := s.db.WithContext(ctx).
		Table("tag").
		Select("tag.id AS id, tag.name AS name, COUNT(article.id) AS article_count").
		Joins("JOIN article_tags ON article_tags.tag_id = tag.id").
		Joins("JOIN article ON article.id = article_tags.article_id").
		Where("article.status = ? AND article.pub_time IS NOT NULL", model.StatusPublished).
		Group("tag.id, tag.name").
		Order("article_count DESC, tag.name").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("tag usage: %w", err)
	}

	if len(rows) == 0 {
		return []TagCloudItem{}, nil
	}

	lo, hi := rows[0].ArticleCount, rows[0].ArticleCount
	for _, r := range rows[1:] {
		lo = min(lo, r.ArticleCount)
		hi = max(hi, r.ArticleCount)
	}

	items := make([]TagCloudItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, TagCloudItem{
			ID:    r.ID,
			Text:  r.Name,
			Size:  TagSize(r.ArticleCount, lo, hi),
			Count: r.ArticleCount,
			URL:   TagURL(r.ID),
		})
	}
	return items, nil
}

// TagSize 最少与最多使用次数相同时取中间值3,否则在[1,5]内线性缩放
func TagSize(count, lo, hi int64) int {
	if hi <= lo {
		return (minTagSize + maxTagSize) / 2
	}
	ratio := float64(count-lo) / float64(hi-lo)
	size := minTagSize + int(math.Round(ratio*float64(maxTagSize-minTagSize)))
	return max(minTagSize, min(maxTagSize, size))
}

func TagURL(id uint) string {
	return fmt.Sprintf("/tag/%d/", id)
}

func CategoryURL(id uint) string {
	return fmt.Sprintf("/category/%d/", id)
}
