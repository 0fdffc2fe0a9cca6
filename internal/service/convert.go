package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"gorm.io/gorm"

	"jbt-blog/internal/model"
)

var htmlTagPattern = regexp.MustCompile(`(?i)</?(p|div|span|br|h[1-6]|ul|ol|li|a|img|strong|em|b|i|pre|code|blockquote|table)\b[^>]*>`)

// HTMLConverter 把HTML正文转换为Markdown
type HTMLConverter struct {
	conv *md.Converter
}

func NewHTMLConverter() *HTMLConverter {
	return &HTMLConverter{conv: md.NewConverter("", true, nil)}
}

func (c *HTMLConverter) ToMarkdown(html string) (string, error) {
	out, err := c.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("html to markdown: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// LooksLikeHTML 已是Markdown的正文不再转换
func LooksLikeHTML(s string) bool {
	return htmlTagPattern.MatchString(s)
}

// ConvertHTMLContent 将仍是HTML格式的文章正文转换为Markdown,返回转换篇数
func (s *ArticleService) ConvertHTMLContent(ctx context.Context, conv *HTMLConverter) (int, error) {
	var (
		batch     []model.Article
		converted int
	)
	err := s.db.WithContext(ctx).Order("id").FindInBatches(&batch, 100, func(tx *gorm.DB, _ int) error {
		for i := range batch {
			a := &batch[i]
			if !LooksLikeHTML(a.Content) {
				continue
			}
			content, err := conv.ToMarkdown(a.Content)
			if err != nil {
				return fmt.Errorf("article %d: %w", a.ID, err)
			}
			a.Content = content
			if err := s.Save(ctx, a, nil); err != nil {
				return err
			}
			converted++
		}
		return nil
	}).Error
	if err != nil {
		return converted, err
	}
	return converted, nil
}
