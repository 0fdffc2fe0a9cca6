package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jbt-blog/internal/model"
	"jbt-blog/internal/pagination"
)

const publishedOrder = "article.pub_time DESC, article.id DESC"

type ArticleService struct {
	db *gorm.DB
}

func NewArticleService(db *gorm.DB) *ArticleService {
	return &ArticleService{db: db}
}

// Published 仅包含已发表且有发布时间的文章
func Published(db *gorm.DB) *gorm.DB {
	return db.Where("article.status = ? AND article.pub_time IS NOT NULL", model.StatusPublished)
}

func (s *ArticleService) published(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&model.Article{}).Scopes(Published).Order(publishedOrder)
}

// ListPublished 首页文章列表
func (s *ArticleService) ListPublished(ctx context.Context, page string, perPage int) (*pagination.Page[model.Article], error) {
	return pagination.Paginate[model.Article](s.published(ctx), page, perPage, "Category", "Tags")
}

// ListByCategory 分类下的文章
func (s *ArticleService) ListByCategory(ctx context.Context, categoryID uint, page string, perPage int) (*pagination.Page[model.Article], error) {
	q := s.published(ctx).Where("article.category_id = ?", categoryID)
	return pagination.Paginate[model.Article](q, page, perPage, "Category", "Tags")
}

// ListByTag 标签下的文章
func (s *ArticleService) ListByTag(ctx context.Context, tagID uint, page string, perPage int) (*pagination.Page[model.Article], error) {
	q := s.published(ctx).
		Joins("JOIN article_tags ON article_tags.article_id = article.id").
		Where("article_tags.tag_id = ?", tagID)
	return pagination.Paginate[model.Article](q, page, perPage, "Category", "Tags")
}

// ListByMonth 某年某月发表的文章
func (s *ArticleService) ListByMonth(ctx context.Context, year int, month time.Month, page string, perPage int) (*pagination.Page[model.Article], error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	q := s.published(ctx).Where("article.pub_time >= ? AND article.pub_time < ?", start, end)
	return pagination.Paginate[model.Article](q, page, perPage, "Category", "Tags")
}

// AdminFilter 后台列表的搜索与过滤条件
type AdminFilter struct {
	Query      string
	Status     model.ArticleStatus
	CategoryID uint
}

// Search 后台列表,包含草稿
func (s *ArticleService) Search(ctx context.Context, f AdminFilter, page string, perPage int) (*pagination.Page[model.Article], error) {
	q := s.db.WithContext(ctx).Model(&model.Article{}).Order("article.created_time DESC, article.id DESC")
	if kw := strings.TrimSpace(f.Query); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("article.title LIKE ? OR article.content LIKE ?", like, like)
	}
	if f.Status != "" {
		q = q.Where("article.status = ?", f.Status)
	}
	if f.CategoryID != 0 {
		q = q.Where("article.category_id = ?", f.CategoryID)
	}
	return pagination.Paginate[model.Article](q, page, perPage, "Category", "Tags")
}

// Get 按id获取文章,包含草稿
func (s *ArticleService) Get(ctx context.Context, id uint) (*model.Article, error) {
	var article model.Article
	err := s.db.WithContext(ctx).Preload("Category").Preload("Tags").First(&article, id).Error
	if err != nil {
		return nil, notFound(err, "article", id)
	}
	return &article, nil
}

// FindByTitle 按标题查找文章,同名时取最早创建的一篇
func (s *ArticleService) FindByTitle(ctx context.Context, title string) (*model.Article, error) {
	var article model.Article
	err := s.db.WithContext(ctx).Where("title = ?", title).Order("id").Preload("Tags").Take(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("article %q: %w", title, ErrNotFound)
		}
		return nil, fmt.Errorf("find article %q: %w", title, err)
	}
	return &article, nil
}

// GetPublished 前台详情,草稿视为不存在
func (s *ArticleService) GetPublished(ctx context.Context, id uint) (*model.Article, error) {
	var article model.Article
	err := s.db.WithContext(ctx).Scopes(Published).Preload("Category").Preload("Tags").First(&article, id).Error
	if err != nil {
		return nil, notFound(err, "article", id)
	}
	return &article, nil
}

// Viewed 浏览量+1,不触发保存钩子
func (s *ArticleService) Viewed(ctx context.Context, article *model.Article) error {
	res := s.db.WithContext(ctx).Model(&model.Article{}).
		Where("id = ?", article.ID).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("update views: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("article %d: %w", article.ID, ErrNotFound)
	}
	article.Views++
	return nil
}

// Next 下一篇:发布时间比当前文章早的文章中最晚的一篇
func (s *ArticleService) Next(ctx context.Context, article *model.Article) (*model.Article, error) {
	if article.PubTime == nil {
		return nil, nil
	}
	return s.neighbour(ctx, "article.pub_time < ?", "article.pub_time DESC", *article.PubTime)
}

// Prev 上一篇:发布时间比当前文章晚的文章中最早的一篇
func (s *ArticleService) Prev(ctx context.Context, article *model.Article) (*model.Article, error) {
	if article.PubTime == nil {
		return nil, nil
	}
	return s.neighbour(ctx, "article.pub_time > ?", "article.pub_time ASC", *article.PubTime)
}

func (s *ArticleService) neighbour(ctx context.Context, cond, order string, pubTime time.Time) (*model.Article, error) {
	var found model.Article
	err := s.db.WithContext(ctx).Scopes(Published).Where(cond, pubTime).Order(order).Take(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("neighbour query: %w", err)
	}
	return &found, nil
}

// Save 保存文章;tagIDs为nil时不改动标签,空切片清空标签
func (s *ArticleService) Save(ctx context.Context, article *model.Article, tagIDs []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if article.CategoryID != nil {
			var n int64
			if err := tx.Model(&model.Category{}).Where("id = ?", *article.CategoryID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("category %d: %w", *article.CategoryID, ErrInvalidReference)
			}
		}

		var tags []model.Tag
		if len(tagIDs) > 0 {
			ids := uniqueIDs(tagIDs)
			if err := tx.Where("id IN ?", ids).Order("name").Find(&tags).Error; err != nil {
				return err
			}
			if len(tags) != len(ids) {
				return fmt.Errorf("tags %v: %w", ids, ErrInvalidReference)
			}
		}

		// 关联对象不随文章保存
		category := article.Category
		article.Category = nil
		err := tx.Omit(clause.Associations).Save(article).Error
		article.Category = category
		if err != nil {
			return fmt.Errorf("save article: %w", err)
		}

		if tagIDs == nil {
			return nil
		}
		assoc := tx.Model(article).Association("Tags")
		if len(tags) == 0 {
			err = assoc.Clear()
		} else {
			err = assoc.Replace(tags)
		}
		if err != nil {
			return fmt.Errorf("save article tags: %w", err)
		}
		article.Tags = tags
		return nil
	})
}

// Delete 删除文章及其标签关联
func (s *ArticleService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM article_tags WHERE article_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Article{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("article %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// ArchiveMonth 归档中的一个月
type ArchiveMonth struct {
	Year     int             `json:"year"`
	Month    time.Month      `json:"month"`
	Articles []model.Article `json:"articles"`
}

func (m ArchiveMonth) Count() int {
	return len(m.Articles)
}

func (m ArchiveMonth) URL() string {
	return fmt.Sprintf("/archive/%d/%d/", m.Year, int(m.Month))
}

// Archive 按月份分组的已发表文章,最新的月份在前
func (s *ArticleService) Archive(ctx context.Context) ([]ArchiveMonth, error) {
	var articles []model.Article
	err := s.published(ctx).
		Select("article.id", "article.title", "article.status", "article.pub_time", "article.views").
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}

	var months []ArchiveMonth
	for _, a := range articles {
		t := a.PubTime.UTC()
		n := len(months)
		if n == 0 || months[n-1].Year != t.Year() || months[n-1].Month != t.Month() {
			months = append(months, ArchiveMonth{Year: t.Year(), Month: t.Month()})
			n++
		}
		months[n-1].Articles = append(months[n-1].Articles, a)
	}
	return months, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
