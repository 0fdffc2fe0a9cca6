package model

import (
	"time"

	"gorm.io/gorm"
)

type Tag struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:64;not null;index" json:"name"`
	CreatedTime time.Time `gorm:"not null" json:"created_time"`
	LastModTime time.Time `gorm:"not null" json:"last_mod_time"`
}

func (Tag) TableName() string {
	return "tag"
}

func (t *Tag) BeforeSave(tx *gorm.DB) error {
	now := Now()
	if t.CreatedTime.IsZero() {
		t.CreatedTime = now
	}
	t.LastModTime = now
	return nil
}
