// Package markdown renders article content to HTML and builds plain-text excerpts.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const (
	DefaultExcerptLength = 300
	ellipsis             = "..."
)

// Renderer 无状态,可在请求间复用
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Footnote,
				extension.DefinitionList,
				extension.Strikethrough,
				highlighting.NewHighlighting(
					highlighting.WithStyle("friendly"),
					highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
					highlighting.WithWrapperRenderer(wrapHighlight),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
				parser.WithAttribute(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithUnsafe(),
			),
		),
	}
}

var defaultRenderer = NewRenderer()

// Render 将Markdown转换为HTML
func (r *Renderer) Render(src string) (string, error) {
	if src == "" {
		return "", nil
	}

	source := []byte(src)
	doc := r.md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, doc); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}

	out := buf.String()
	if strings.Contains(out, tocPlaceholder) {
		out = strings.ReplaceAll(out, tocPlaceholder, buildTOC(collectHeadings(doc, source)))
	}
	return out, nil
}

// Truncate 去掉HTML标签后截取纯文本用于摘要
func (r *Renderer) Truncate(src string, length int) (string, error) {
	if src == "" {
		return "", nil
	}

	rendered, err := r.Render(src)
	if err != nil {
		return "", err
	}

	plain, err := StripTags(rendered)
	if err != nil {
		return "", err
	}

	runes := []rune(plain)
	if len(runes) > length {
		return string(runes[:length]) + ellipsis, nil
	}
	return plain, nil
}

// StripTags 提取HTML中的纯文本
func StripTags(s string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return doc.Text(), nil
}

func Render(src string) (string, error) {
	return defaultRenderer.Render(src)
}

func Truncate(src string, length int) (string, error) {
	return defaultRenderer.Truncate(src, length)
}

// FuncMap 模板过滤器
func FuncMap(excerptLength int) template.FuncMap {
	if excerptLength <= 0 {
		excerptLength = DefaultExcerptLength
	}
	return template.FuncMap{
		"markdown": func(src string) (template.HTML, error) {
			out, err := Render(src)
			return template.HTML(out), err
		},
		"excerpt": func(src string) (string, error) {
			return Truncate(src, excerptLength)
		},
		"date": formatDate,
	}
}

func formatDate(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02 15:04")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	default:
		return ""
	}
}

func wrapHighlight(w util.BufWriter, _ highlighting.CodeBlockContext, entering bool) {
	if entering {
		_, _ = w.WriteString(`<div class="highlight">`)
		return
	}
	_, _ = w.WriteString("</div>\n")
}
