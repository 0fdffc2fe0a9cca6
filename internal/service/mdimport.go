package service

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"jbt-blog/internal/model"
)

// frontMatter Markdown文件头部的元数据
type frontMatter struct {
	Title    string    `yaml:"title" toml:"title" json:"title"`
	Category string    `yaml:"category" toml:"category" json:"category"`
	Tags     []string  `yaml:"tags" toml:"tags" json:"tags"`
	Status   string    `yaml:"status" toml:"status" json:"status"`
	Draft    bool      `yaml:"draft" toml:"draft" json:"draft"`
	Date     time.Time `yaml:"date" toml:"date" json:"date"`
}

type LoadResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// MarkdownLoader 从目录批量导入带front matter的Markdown文章,按标题匹配已有文章
type MarkdownLoader struct {
	articles   *ArticleService
	categories *CategoryService
	tags       *TagService
}

func NewMarkdownLoader(articles *ArticleService, categories *CategoryService, tags *TagService) *MarkdownLoader {
	return &MarkdownLoader{articles: articles, categories: categories, tags: tags}
}

// LoadDir 递归读取fsys中匹配pattern的文件,pattern只匹配文件名
func (l *MarkdownLoader) LoadDir(ctx context.Context, fsys fs.FS, pattern string) (LoadResult, error) {
	var result LoadResult
	if pattern == "" {
		pattern = "*.md"
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return result, fmt.Errorf("pattern %q: %w", pattern, err)
	}

	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := path.Match(pattern, d.Name()); ok {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("walk: %w", err)
	}
	sort.Strings(files)

	for _, p := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return result, fmt.Errorf("read %s: %w", p, err)
		}
		created, err := l.loadFile(ctx, p, src)
		if err != nil {
			return result, fmt.Errorf("load %s: %w", p, err)
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

func (l *MarkdownLoader) loadFile(ctx context.Context, name string, src []byte) (bool, error) {
	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return false, fmt.Errorf("parse front matter: %w", err)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}
	title = truncateRunes(title, maxTitleLength)

	status := model.ArticleStatus(meta.Status)
	if meta.Draft {
		status = model.StatusDraft
	}

	article, err := l.articles.FindByTitle(ctx, title)
	created := IsNotFound(err)
	if err != nil && !created {
		return false, err
	}
	if created {
		article = &model.Article{Title: title}
	}

	article.Content = strings.TrimSpace(string(body))
	if status != "" {
		article.Status = status
	}
	if !meta.Date.IsZero() {
		t := meta.Date.UTC()
		article.PubTime = &t
		if created {
			article.CreatedTime = t
		}
	}

	article.CategoryID = nil
	if category := strings.TrimSpace(meta.Category); category != "" {
		c, err := l.categories.FindOrCreate(ctx, category)
		if err != nil {
			return false, err
		}
		article.CategoryID = &c.ID
	}

	tagIDs, err := l.tags.FindOrCreate(ctx, meta.Tags)
	if err != nil {
		return false, err
	}

	if err := l.articles.Save(ctx, article, tagIDs); err != nil {
		return false, err
	}
	return created, nil
}
