package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"jbt-blog/internal/model"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := s.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	var c model.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, "category", id)
	}
	return &c, nil
}

// FindOrCreate 按名称查找分类,不存在则创建
func (s *CategoryService) FindOrCreate(ctx context.Context, name string) (*model.Category, error) {
	c := model.Category{Name: strings.TrimSpace(name)}
	if err := s.db.WithContext(ctx).Where("name = ?", c.Name).FirstOrCreate(&c).Error; err != nil {
		return nil, fmt.Errorf("find or create category %q: %w", name, err)
	}
	return &c, nil
}

func (s *CategoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	c := model.Category{Name: strings.TrimSpace(name)}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &c, nil
}

func (s *CategoryService) Rename(ctx context.Context, id uint, name string) (*model.Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = strings.TrimSpace(name)
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, fmt.Errorf("rename category %d: %w", id, err)
	}
	return c, nil
}

// Delete 删除分类,引用它的文章分类置空
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Article{}).Where("category_id = ?", id).UpdateColumn("category_id", nil).Error
		if err != nil {
			return fmt.Errorf("detach articles: %w", err)
		}
		res := tx.Delete(&model.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

func (s *TagService) List(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	err := s.db.WithContext(ctx).Order("name").Find(&tags).Error
	return tags, err
}

func (s *TagService) Get(ctx context.Context, id uint) (*model.Tag, error) {
	var t model.Tag
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFound(err, "tag", id)
	}
	return &t, nil
}

func (s *TagService) Create(ctx context.Context, name string) (*model.Tag, error) {
	t := model.Tag{Name: strings.TrimSpace(name)}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &t, nil
}

func (s *TagService) Rename(ctx context.Context, id uint, name string) (*model.Tag, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = strings.TrimSpace(name)
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return nil, fmt.Errorf("rename tag %d: %w", id, err)
	}
	return t, nil
}

// FindOrCreate 按名称批量查找或创建标签,返回id,空名称忽略
func (s *TagService) FindOrCreate(ctx context.Context, names []string) ([]uint, error) {
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if len([]rune(name)) > 64 {
			name = string([]rune(name)[:64])
		}
		t := model.Tag{Name: name}
		if err := s.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&t).Error; err != nil {
			return nil, fmt.Errorf("find or create tag %q: %w", name, err)
		}
		ids = append(ids, t.ID)
	}
	return uniqueIDs(ids), nil
}

// Delete 删除标签,只移除文章关联
func (s *TagService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM article_tags WHERE tag_id = ?", id).Error; err != nil {
			return fmt.Errorf("detach articles: %w", err)
		}
		res := tx.Delete(&model.Tag{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("tag %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
