package service

import (
	"context"
	"errors"
	"testing"

	"jbt-blog/internal/model"
)

func TestDeleteCategoryNullsArticles(t *testing.T) {
	db := setupTestDB(t)
	articles := NewArticleService(db)
	categories := NewCategoryService(db)
	ctx := context.Background()

	cat, err := categories.Create(ctx, "  Go  ")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if cat.Name != "Go" {
		t.Errorf("Expected trimmed name, got %q", cat.Name)
	}

	a := mustCreateArticle(t, articles, "gin", model.StatusPublished, day(1), &cat.ID, nil)
	before, _ := articles.Get(ctx, a.ID)

	if err := categories.Delete(ctx, cat.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	after, err := articles.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Article must survive category deletion: %v", err)
	}
	if after.CategoryID != nil {
		t.Errorf("Expected category to be nulled, got %d", *after.CategoryID)
	}
	if after.PubTime == nil || !after.PubTime.Equal(*before.PubTime) {
		t.Error("Category deletion must not change publish time")
	}

	if err := categories.Delete(ctx, cat.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTagRemovesAssociationsOnly(t *testing.T) {
	db := setupTestDB(t)
	articles := NewArticleService(db)
	tags := NewTagService(db)
	ctx := context.Background()

	ids, err := tags.FindOrCreate(ctx, []string{"keep", "drop", "drop", " "})
	if err != nil {
		t.Fatalf("FindOrCreate failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("Expected duplicates and blanks skipped, got %v", ids)
	}

	a := mustCreateArticle(t, articles, "tagged", model.StatusPublished, day(1), nil, ids)

	if err := tags.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got, err := articles.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Article must survive tag deletion: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "keep" {
		t.Errorf("Expected only 'keep' tag, got %+v", got.Tags)
	}
	if _, err := tags.Get(ctx, ids[1]); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected deleted tag to be gone, got %v", err)
	}
}

func TestRename(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cat, _ := NewCategoryService(db).Create(ctx, "old")
	renamed, err := NewCategoryService(db).Rename(ctx, cat.ID, "new")
	if err != nil || renamed.Name != "new" {
		t.Errorf("Rename category failed: %v %+v", err, renamed)
	}

	tag, _ := NewTagService(db).Create(ctx, "old")
	if _, err := NewTagService(db).Rename(ctx, tag.ID+100, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound renaming missing tag, got %v", err)
	}

	list, _ := NewCategoryService(db).List(ctx)
	if len(list) != 1 || list[0].Name != "new" {
		t.Errorf("Unexpected categories %+v", list)
	}
}
