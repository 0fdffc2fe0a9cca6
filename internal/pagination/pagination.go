package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const DefaultPage = 1

// Paginator 页码从1开始,空列表也有一页
type Paginator struct {
	Count   int64
	PerPage int
}

func New(count int64, perPage int) Paginator {
	if perPage < 1 {
		perPage = 1
	}
	return Paginator{Count: count, PerPage: perPage}
}

// NumPages 总页数
func (p Paginator) NumPages() int {
	if p.Count <= 0 {
		return 1
	}
	per := int64(p.PerPage)
	return int((p.Count + per - 1) / per)
}

// Clamp 非数字页码返回第一页,超出范围的页码返回首页或末页
func (p Paginator) Clamp(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultPage
	}
	if n < 1 {
		return DefaultPage
	}
	if last := p.NumPages(); n > last {
		return last
	}
	return n
}

func (p Paginator) Offset(number int) int {
	return (number - 1) * p.PerPage
}

type Page[T any] struct {
	Items    []T   `json:"items"`
	Number   int   `json:"page"`
	NumPages int   `json:"num_pages"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
}

func (p *Page[T]) HasNext() bool     { return p.Number < p.NumPages }
func (p *Page[T]) HasPrevious() bool { return p.Number > 1 }
func (p *Page[T]) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

// NextPageNumber 没有下一页时返回0
func (p *Page[T]) NextPageNumber() int {
	if !p.HasNext() {
		return 0
	}
	return p.Number + 1
}

func (p *Page[T]) PreviousPageNumber() int {
	if !p.HasPrevious() {
		return 0
	}
	return p.Number - 1
}

// PageRange 1..NumPages,供模板渲染页码
func (p *Page[T]) PageRange() []int {
	out := make([]int, p.NumPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Paginate 统计总数后按页查询,preloads在计数之后才加载
func Paginate[T any](q *gorm.DB, raw string, perPage int, preloads ...string) (*Page[T], error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	p := New(total, perPage)
	number := p.Clamp(raw)

	for _, name := range preloads {
		q = q.Preload(name)
	}

	var items []T
	if err := q.Offset(p.Offset(number)).Limit(p.PerPage).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("find page %d: %w", number, err)
	}

	return &Page[T]{
		Items:    items,
		Number:   number,
		NumPages: p.NumPages(),
		PerPage:  p.PerPage,
		Total:    total,
	}, nil
}
