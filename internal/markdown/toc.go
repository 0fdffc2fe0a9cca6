package markdown

import (
	"html"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// 段落中单独的 [TOC] 会被替换为目录
const tocPlaceholder = "<p>[TOC]</p>"

type heading struct {
	level int
	id    string
	text  string
}

func collectHeadings(doc ast.Node, source []byte) []heading {
	var headings []heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var id string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		headings = append(headings, heading{level: h.Level, id: id, text: nodeText(h, source)})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(nodeText(c, source))
		}
	}
	return sb.String()
}

// buildTOC 按标题层级生成嵌套列表
func buildTOC(headings []heading) string {
	var sb strings.Builder
	sb.WriteString(`<div class="toc">`)
	if len(headings) == 0 {
		sb.WriteString("</div>")
		return sb.String()
	}

	var stack []int
	for _, h := range headings {
		if len(stack) == 0 || h.level > stack[len(stack)-1] {
			sb.WriteString("<ul>")
			stack = append(stack, h.level)
		} else {
			// 只关闭不高于当前级别的外层,介于两级之间的标题并入内层
			for len(stack) > 1 && h.level < stack[len(stack)-1] && h.level <= stack[len(stack)-2] {
				sb.WriteString("</li></ul>")
				stack = stack[:len(stack)-1]
			}
			if h.level < stack[len(stack)-1] {
				stack[len(stack)-1] = h.level
			}
			sb.WriteString("</li>")
		}
		sb.WriteString(`<li><a href="#`)
		sb.WriteString(html.EscapeString(h.id))
		sb.WriteString(`">`)
		sb.WriteString(html.EscapeString(h.text))
		sb.WriteString("</a>")
	}
	for range stack {
		sb.WriteString("</li></ul>")
	}
	sb.WriteString("</div>")
	return sb.String()
}
