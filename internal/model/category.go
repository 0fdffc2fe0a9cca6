package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	CreatedTime time.Time `gorm:"not null" json:"created_time"`
	LastModTime time.Time `gorm:"not null" json:"last_mod_time"`
}

func (Category) TableName() string {
	return "category"
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	now := Now()
	if c.CreatedTime.IsZero() {
		c.CreatedTime = now
	}
	c.LastModTime = now
	return nil
}
