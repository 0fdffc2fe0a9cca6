package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"jbt-blog/internal/model"
)

const maxTitleLength = 100

type FeedService struct {
	db        *gorm.DB
	parser    *gofeed.Parser
	converter *HTMLConverter
	articles  *ArticleService
	tags      *TagService
	log       zerolog.Logger
}

func NewFeedService(db *gorm.DB, log zerolog.Logger) *FeedService {
	return &FeedService{
		db:        db,
		parser:    gofeed.NewParser(),
		converter: NewHTMLConverter(),
		articles:  NewArticleService(db),
		tags:      NewTagService(db),
		log:       log.With().Str("component", "feed").Logger(),
	}
}

func (s *FeedService) List(ctx context.Context) ([]model.Feed, error) {
	var feeds []model.Feed
	err := s.db.WithContext(ctx).Order("id").Find(&feeds).Error
	return feeds, err
}

func (s *FeedService) Get(ctx context.Context, id uint) (*model.Feed, error) {
	var feed model.Feed
	if err := s.db.WithContext(ctx).First(&feed, id).Error; err != nil {
		return nil, notFound(err, "feed", id)
	}
	return &feed, nil
}

func (s *FeedService) Create(ctx context.Context, feed *model.Feed) error {
	if err := s.db.WithContext(ctx).Create(feed).Error; err != nil {
		return fmt.Errorf("create feed: %w", err)
	}
	return nil
}

// Update 保存导入源的全部字段,包括停用
func (s *FeedService) Update(ctx context.Context, feed *model.Feed) error {
	if err := s.db.WithContext(ctx).Save(feed).Error; err != nil {
		return fmt.Errorf("update feed %d: %w", feed.ID, err)
	}
	return nil
}

func (s *FeedService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Feed{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("feed %d: %w", id, ErrNotFound)
	}
	return nil
}

// FetchFeed 抓取单个导入源
func (s *FeedService) FetchFeed(ctx context.Context, feed *model.Feed) (int, error) {
	return s.ImportURL(ctx, feed.URL)
}

// ImportURL 抓取并导入为草稿,返回新增篇数
func (s *FeedService) ImportURL(ctx context.Context, url string) (int, error) {
	parsed, err := s.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return 0, fmt.Errorf("parse feed %s: %w", url, err)
	}

	var count int
	for _, item := range parsed.Items {
		created, err := s.importItem(ctx, item)
		if err != nil {
			return count, err
		}
		if created {
			count++
		}
	}

	s.log.Info().Str("url", url).Int("items", len(parsed.Items)).Int("imported", count).Msg("Feed imported")
	return count, nil
}

// FetchAllFeeds 抓取所有启用的导入源,单个失败不影响其他
func (s *FeedService) FetchAllFeeds(ctx context.Context) (int, error) {
	var feeds []model.Feed
	if err := s.db.WithContext(ctx).Where("enabled = ?", true).Find(&feeds).Error; err != nil {
		return 0, err
	}

	var (
		total int
		errs  []error
	)
	for i := range feeds {
		n, err := s.FetchFeed(ctx, &feeds[i])
		total += n
		if err != nil {
			s.log.Error().Err(err).Str("feed", feeds[i].Name).Msg("Feed import failed")
			errs = append(errs, err)
		}
	}
	return total, errors.Join(errs...)
}

func (s *FeedService) importItem(ctx context.Context, item *gofeed.Item) (bool, error) {
	// 使用Link去重,没有Link时退回GUID
	link := strings.TrimSpace(item.Link)
	if link == "" {
		link = strings.TrimSpace(item.GUID)
	}
	if link == "" {
		s.log.Warn().Str("title", item.Title).Msg("Skip feed item without link or guid")
		return false, nil
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Article{}).Where("source_link = ?", link).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	body := item.Content
	if strings.TrimSpace(body) == "" {
		body = item.Description
	}
	content, err := s.converter.ToMarkdown(body)
	if err != nil {
		return false, err
	}

	tagIDs, err := s.tags.FindOrCreate(ctx, item.Categories)
	if err != nil {
		return false, err
	}

	article := &model.Article{
		Title:       truncateRunes(strings.TrimSpace(item.Title), maxTitleLength),
		Content:     content,
		Status:      model.StatusDraft,
		CreatedTime: s.parseTime(item),
		SourceLink:  &link,
	}
	if article.Title == "" {
		article.Title = truncateRunes(link, maxTitleLength)
	}

	if err := s.articles.Save(ctx, article, tagIDs); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FeedService) parseTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC().Truncate(time.Microsecond)
	}
	return model.Now()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
