package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidReference = errors.New("invalid reference")
)

// notFound 把gorm的记录不存在转换为ErrNotFound
func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("get %s %d: %w", what, id, err)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
