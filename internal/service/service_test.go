package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"jbt-blog/config"
	"jbt-blog/internal/database"
	"jbt-blog/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}

func day(n int) *time.Time {
	t := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return &t
}

func mustCreateArticle(t *testing.T, svc *ArticleService, title string, status model.ArticleStatus, pub *time.Time, categoryID *uint, tagIDs []uint) *model.Article {
	t.Helper()
	a := &model.Article{Title: title, Content: "正文 " + title, Status: status, PubTime: pub, CategoryID: categoryID}
	if err := svc.Save(context.Background(), a, tagIDs); err != nil {
		t.Fatalf("Save %q failed: %v", title, err)
	}
	return a
}

func uintPtr(v uint) *uint { return &v }
