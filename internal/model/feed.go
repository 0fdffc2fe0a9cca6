package model

import "time"

// Feed 文章导入源(RSS/Atom)
type Feed struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name" binding:"required,max=255"`
	URL       string    `gorm:"size:500;uniqueIndex;not null" json:"url" binding:"required,url,max=500"`
	Enabled   bool      `gorm:"not null" json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Feed) TableName() string {
	return "feed"
}

// All 需要自动迁移的模型
func All() []interface{} {
	return []interface{}{&Category{}, &Tag{}, &Article{}, &Feed{}}
}
