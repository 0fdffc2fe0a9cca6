package model

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "d" // 草稿
	StatusPublished ArticleStatus = "p" // 发表
)

var ErrInvalidStatus = errors.New("invalid article status")

// Now 统一使用UTC并截断到微秒,保证sqlite与postgres往返一致
var Now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

type Article struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"size:100;not null" json:"title"`
	Content     string        `gorm:"type:text" json:"content"`
	Status      ArticleStatus `gorm:"size:1;not null;default:p;index" json:"status"`
	Views       uint          `gorm:"not null;default:0" json:"views"`
	CreatedTime time.Time     `gorm:"not null" json:"created_time"`
	PubTime     *time.Time    `gorm:"index" json:"pub_time"`
	LastModTime time.Time     `gorm:"not null" json:"last_mod_time"`
	CategoryID  *uint         `gorm:"index" json:"category_id"`
	Category    *Category     `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Tags        []Tag         `gorm:"many2many:article_tags" json:"tags"`
	SourceLink  *string       `gorm:"size:500;uniqueIndex" json:"source_link,omitempty"`
}

func (Article) TableName() string {
	return "article"
}

func (a Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// BeforeCreate 创建时补齐创建时间
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedTime.IsZero() {
		a.CreatedTime = Now()
	}
	return nil
}

// BeforeSave 每次保存时处理发布时间和修改时间
func (a *Article) BeforeSave(tx *gorm.DB) error {
	return a.ApplyPublishState(Now())
}

// ApplyPublishState 发表且无发布时间时记录当前时间;草稿一律清空发布时间
func (a *Article) ApplyPublishState(now time.Time) error {
	if a.Status == "" {
		a.Status = StatusPublished
	}

	switch a.Status {
	case StatusPublished:
		if a.PubTime == nil {
			t := now
			a.PubTime = &t
		}
	case StatusDraft:
		// 撤回为草稿会丢失原发布时间
		a.PubTime = nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, a.Status)
	}

	a.LastModTime = now
	return nil
}
