package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"gorm.io/gorm"

	"jbt-blog/internal/model"
)

type SeedResult struct {
	Categories int `json:"categories"`
	Tags       int `json:"tags"`
	Articles   int `json:"articles"`
}

// SeedService 生成示例数据与清空数据
type SeedService struct {
	db         *gorm.DB
	articles   *ArticleService
	categories *CategoryService
	tags       *TagService
	rand       *rand.Rand
}

func NewSeedService(db *gorm.DB, rng *rand.Rand) *SeedService {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &SeedService{
		db:         db,
		articles:   NewArticleService(db),
		categories: NewCategoryService(db),
		tags:       NewTagService(db),
		rand:       rng,
	}
}

// Seed 创建示例分类、标签和已发表文章,已存在的同名文章跳过
func (s *SeedService) Seed(ctx context.Context) (SeedResult, error) {
	var result SeedResult

	categoryIDs := make(map[string]uint, len(seedCategories))
	for _, name := range seedCategories {
		c, err := s.categories.FindOrCreate(ctx, name)
		if err != nil {
			return result, err
		}
		categoryIDs[name] = c.ID
	}
	result.Categories = len(categoryIDs)

	tagIDs, err := s.tags.FindOrCreate(ctx, seedTags)
	if err != nil {
		return result, err
	}
	result.Tags = len(tagIDs)

	all := append([]seedArticle(nil), seedArticles...)
	for _, g := range seedGenerated {
		all = append(all, seedArticle{
			Title:    g.Title,
			Category: g.Category,
			Tags:     g.Tags,
			Content:  generatedContent(g.Title, g.Category),
		})
	}

	base := model.Now().AddDate(0, 0, -30)
	for _, sa := range all {
		var n int64
		if err := s.db.WithContext(ctx).Model(&model.Article{}).Where("title = ?", sa.Title).Count(&n).Error; err != nil {
			return result, err
		}
		if n > 0 {
			continue
		}

		ids, err := s.tags.FindOrCreate(ctx, sa.Tags)
		if err != nil {
			return result, err
		}

		pubTime := base.Add(time.Duration(s.rand.IntN(30))*24*time.Hour + time.Duration(s.rand.IntN(24))*time.Hour)
		categoryID := categoryIDs[sa.Category]
		article := &model.Article{
			Title:      sa.Title,
			Content:    sa.Content,
			Status:     model.StatusPublished,
			PubTime:    &pubTime,
			Views:      uint(10 + s.rand.IntN(491)),
			CategoryID: &categoryID,
		}
		if err := s.articles.Save(ctx, article, ids); err != nil {
			return result, fmt.Errorf("seed article %q: %w", sa.Title, err)
		}
		result.Articles++
	}

	return result, nil
}

// Clear 删除所有文章、分类和标签
func (s *SeedService) Clear(ctx context.Context) (SeedResult, error) {
	var result SeedResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM article_tags").Error; err != nil {
			return err
		}
		res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Article{})
		if res.Error != nil {
			return res.Error
		}
		result.Articles = int(res.RowsAffected)

		res = tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Category{})
		if res.Error != nil {
			return res.Error
		}
		result.Categories = int(res.RowsAffected)

		res = tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Tag{})
		if res.Error != nil {
			return res.Error
		}
		result.Tags = int(res.RowsAffected)
		return nil
	})
	return result, err
}
