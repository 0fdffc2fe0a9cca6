package service

import (
	"context"
	"math/rand/v2"
	"testing"

	"jbt-blog/internal/model"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeedService(db, rand.New(rand.NewPCG(1, 2)))
	ctx := context.Background()

	res, err := svc.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	want := len(seedArticles) + len(seedGenerated)
	if res.Articles != want {
		t.Errorf("Expected %d articles, got %d", want, res.Articles)
	}
	if res.Categories != len(seedCategories) || res.Tags != len(seedTags) {
		t.Errorf("Unexpected seed result %+v", res)
	}

	var articles []model.Article
	db.Find(&articles)
	now := model.Now()
	for _, a := range articles {
		if !a.IsPublished() || a.PubTime == nil {
			t.Errorf("Seeded article %q must be published", a.Title)
			continue
		}
		if a.PubTime.After(now) || a.PubTime.Before(now.AddDate(0, 0, -31)) {
			t.Errorf("Pub time %v out of the last 30 days", a.PubTime)
		}
		if a.Views < 10 || a.Views > 500 {
			t.Errorf("Views %d out of range", a.Views)
		}
	}

	again, err := svc.Seed(ctx)
	if err != nil {
		t.Fatalf("Second seed failed: %v", err)
	}
	if again.Articles != 0 {
		t.Errorf("Expected existing articles to be skipped, got %d", again.Articles)
	}

	var categories int64
	db.Model(&model.Category{}).Count(&categories)
	if int(categories) != len(seedCategories) {
		t.Errorf("Expected categories not duplicated, got %d", categories)
	}
}

func TestClear(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeedService(db, rand.New(rand.NewPCG(3, 4)))
	ctx := context.Background()

	if _, err := svc.Seed(ctx); err != nil {
		t.Fatal(err)
	}
	res, err := svc.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if res.Articles != len(seedArticles)+len(seedGenerated) || res.Categories != len(seedCategories) {
		t.Errorf("Unexpected clear result %+v", res)
	}

	for _, m := range []interface{}{&model.Article{}, &model.Category{}, &model.Tag{}} {
		var n int64
		db.Model(m).Count(&n)
		if n != 0 {
			t.Errorf("Expected %T table empty, got %d", m, n)
		}
	}
	var links int64
	db.Table("article_tags").Count(&links)
	if links != 0 {
		t.Errorf("Expected no tag links, got %d", links)
	}
}
