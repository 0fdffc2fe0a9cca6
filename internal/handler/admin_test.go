package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"jbt-blog/internal/model"
	"jbt-blog/internal/service"
)

type fakeScheduler struct {
	next time.Time
}

func (f fakeScheduler) GetNextFetchTime() time.Time { return f.next }

func TestAdminDisabledWithoutPassword(t *testing.T) {
	env := setupTestRouter(t, "")

	w := env.do("GET", "/admin/api/articles", "", asAdmin)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestAdminRequiresAuth(t *testing.T) {
	env := setupTestRouter(t, "secret")

	tests := []struct {
		name string
		opt  func(*http.Request)
		code int
	}{
		{"no credentials", func(*http.Request) {}, http.StatusUnauthorized},
		{"wrong password", func(r *http.Request) { r.SetBasicAuth("admin", "nope") }, http.StatusUnauthorized},
		{"valid", asAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("GET", "/admin/api/articles", "", tt.opt)
			if w.Code != tt.code {
				t.Errorf("Expected status %d, got %d", tt.code, w.Code)
			}
		})
	}
}

func TestAdminArticleLifecycle(t *testing.T) {
	env := setupTestRouter(t, "secret")

	w := env.do("POST", "/admin/api/categories", `{"name":"随笔"}`, asAdmin)
	if w.Code != http.StatusCreated {
		t.Fatalf("Create category: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var category model.Category
	decode(t, w, &category)

	body := fmt.Sprintf(`{"title":"Admin post","content":"hello","category_id":%d,"tags":["Go","Web"," "]}`, category.ID)
	w = env.do("POST", "/admin/api/articles", body, asAdmin)
	if w.Code != http.StatusCreated {
		t.Fatalf("Create article: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created model.Article
	decode(t, w, &created)
	if created.Status != model.StatusPublished || created.PubTime == nil {
		t.Errorf("New article should be published with a publish time, got %q %v", created.Status, created.PubTime)
	}
	if len(created.Tags) != 2 || created.Category == nil || created.Category.ID != category.ID {
		t.Errorf("Unexpected relations: tags=%v category=%v", created.Tags, created.Category)
	}

	path := fmt.Sprintf("/admin/api/articles/%d", created.ID)
	body = fmt.Sprintf(`{"title":"Admin post v2","content":"hello","status":"d","category_id":%d}`, category.ID)
	w = env.do("PUT", path, body, asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("Update article: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated model.Article
	decode(t, w, &updated)
	if updated.Status != model.StatusDraft || updated.PubTime != nil {
		t.Errorf("Draft must have no publish time, got %q %v", updated.Status, updated.PubTime)
	}
	if updated.Title != "Admin post v2" || len(updated.Tags) != 2 {
		t.Errorf("Unexpected update result: %q with %d tags", updated.Title, len(updated.Tags))
	}

	// 草稿不在前台显示
	if w := env.do("GET", fmt.Sprintf("/article/%d/", created.ID), ""); w.Code != http.StatusNotFound {
		t.Errorf("Draft detail: expected 404, got %d", w.Code)
	}

	w = env.do("GET", "/admin/api/articles?status=d&q=v2", "", asAdmin)
	var page struct {
		Items []model.Article `json:"items"`
		Total int64           `json:"total"`
	}
	decode(t, w, &page)
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].ID != created.ID {
		t.Errorf("Unexpected search result: %+v", page)
	}

	if w := env.do("DELETE", path, "", asAdmin); w.Code != http.StatusOK {
		t.Fatalf("Delete article: expected 200, got %d", w.Code)
	}
	if w := env.do("GET", path, "", asAdmin); w.Code != http.StatusNotFound {
		t.Errorf("Deleted article: expected 404, got %d", w.Code)
	}
	if w := env.do("DELETE", path, "", asAdmin); w.Code != http.StatusNotFound {
		t.Errorf("Delete twice: expected 404, got %d", w.Code)
	}
}

func TestAdminArticleValidation(t *testing.T) {
	env := setupTestRouter(t, "secret")

	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing title", `{"content":"x"}`, http.StatusBadRequest},
		{"title too long", fmt.Sprintf(`{"title":"%0101d"}`, 0), http.StatusBadRequest},
		{"unknown status", `{"title":"x","status":"x"}`, http.StatusBadRequest},
		{"unknown category", `{"title":"x","category_id":999}`, http.StatusBadRequest},
		{"unknown tag", `{"title":"x","tag_ids":[999]}`, http.StatusBadRequest},
		{"malformed json", `{"title":`, http.StatusBadRequest},
		{"valid draft", `{"title":"x","status":"d"}`, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("POST", "/admin/api/articles", tt.body, asAdmin)
			if w.Code != tt.code {
				t.Errorf("Expected status %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestAdminUpdateKeepsPublishTime(t *testing.T) {
	env := setupTestRouter(t, "secret")
	a := env.article(t, "Kept", model.StatusPublished, day(5), nil, nil)

	w := env.do("PUT", fmt.Sprintf("/admin/api/articles/%d", a.ID), `{"title":"Kept","content":"edited"}`, asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated model.Article
	decode(t, w, &updated)
	if updated.PubTime == nil || !updated.PubTime.Equal(*day(5)) {
		t.Errorf("Expected publish time %v to be kept, got %v", day(5), updated.PubTime)
	}
}

func TestAdminDeleteTaxonomy(t *testing.T) {
	env := setupTestRouter(t, "secret")
	ctx := context.Background()
	category, err := service.NewCategoryService(env.db).Create(ctx, "删除我")
	if err != nil {
		t.Fatalf("Create category failed: %v", err)
	}
	tagIDs, err := service.NewTagService(env.db).FindOrCreate(ctx, []string{"tmp"})
	if err != nil {
		t.Fatalf("Create tag failed: %v", err)
	}
	a := env.article(t, "Survivor", model.StatusPublished, day(1), &category.ID, tagIDs)

	if w := env.do("DELETE", fmt.Sprintf("/admin/api/categories/%d", category.ID), "", asAdmin); w.Code != http.StatusOK {
		t.Fatalf("Delete category: expected 200, got %d", w.Code)
	}
	if w := env.do("DELETE", fmt.Sprintf("/admin/api/tags/%d", tagIDs[0]), "", asAdmin); w.Code != http.StatusOK {
		t.Fatalf("Delete tag: expected 200, got %d", w.Code)
	}

	got, err := env.articles.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Article should survive taxonomy deletion: %v", err)
	}
	if got.CategoryID != nil || len(got.Tags) != 0 {
		t.Errorf("Expected detached article, got category=%v tags=%v", got.CategoryID, got.Tags)
	}

	if w := env.do("PUT", "/admin/api/tags/999", `{"name":"x"}`, asAdmin); w.Code != http.StatusNotFound {
		t.Errorf("Rename missing tag: expected 404, got %d", w.Code)
	}
}

func TestAdminFeeds(t *testing.T) {
	env := setupTestRouter(t, "secret")

	if w := env.do("POST", "/admin/api/feeds", `{"name":"bad","url":"not a url"}`, asAdmin); w.Code != http.StatusBadRequest {
		t.Errorf("Invalid feed url: expected 400, got %d", w.Code)
	}

	w := env.do("POST", "/admin/api/feeds", `{"name":"Example","url":"https://example.com/rss"}`, asAdmin)
	if w.Code != http.StatusCreated {
		t.Fatalf("Create feed: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var feed model.Feed
	decode(t, w, &feed)
	if !feed.Enabled {
		t.Error("New feed should be enabled")
	}

	w = env.do("GET", "/admin/api/feeds", "", asAdmin)
	var feeds []model.Feed
	decode(t, w, &feeds)
	if len(feeds) != 1 {
		t.Errorf("Expected 1 feed, got %d", len(feeds))
	}

	if w := env.do("POST", "/admin/api/feeds/999/fetch", "", asAdmin); w.Code != http.StatusNotFound {
		t.Errorf("Fetch missing feed: expected 404, got %d", w.Code)
	}
	if w := env.do("DELETE", fmt.Sprintf("/admin/api/feeds/%d", feed.ID), "", asAdmin); w.Code != http.StatusOK {
		t.Errorf("Delete feed: expected 200, got %d", w.Code)
	}
}

func TestAdminFeedEnabledFlag(t *testing.T) {
	env := setupTestRouter(t, "secret")

	if w := env.do("POST", "/admin/api/feeds", `{"name":"Nameless"}`, asAdmin); w.Code != http.StatusBadRequest {
		t.Errorf("Missing url: expected 400, got %d", w.Code)
	}

	w := env.do("POST", "/admin/api/feeds", `{"name":"Off","url":"https://example.com/rss","enabled":false}`, asAdmin)
	if w.Code != http.StatusCreated {
		t.Fatalf("Create feed: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var feed model.Feed
	decode(t, w, &feed)
	if feed.Enabled {
		t.Error("Feed created with enabled=false should be disabled")
	}

	path := fmt.Sprintf("/admin/api/feeds/%d", feed.ID)
	w = env.do("PUT", path, `{"enabled":true}`, asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("Enable feed: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &feed)
	if !feed.Enabled || feed.Name != "Off" {
		t.Errorf("Expected enabled feed with unchanged name, got %+v", feed)
	}

	w = env.do("PUT", path, `{"enabled":false}`, asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("Disable feed: expected 200, got %d", w.Code)
	}

	w = env.do("GET", "/admin/api/status", "", asAdmin)
	var status service.SystemStatus
	decode(t, w, &status)
	if status.TotalFeeds != 1 || status.EnabledFeeds != 0 {
		t.Errorf("Expected disabled feed in status, got total=%d enabled=%d", status.TotalFeeds, status.EnabledFeeds)
	}

	if w := env.do("PUT", path, `{"url":"nope"}`, asAdmin); w.Code != http.StatusBadRequest {
		t.Errorf("Invalid url: expected 400, got %d", w.Code)
	}
	if w := env.do("PUT", "/admin/api/feeds/999", `{"enabled":true}`, asAdmin); w.Code != http.StatusNotFound {
		t.Errorf("Missing feed: expected 404, got %d", w.Code)
	}
}

func TestAdminStatus(t *testing.T) {
	env := setupTestRouter(t, "secret")
	next := time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)
	env.handler.SetScheduler(fakeScheduler{next: next})

	env.article(t, "One", model.StatusPublished, day(1), nil, nil)
	env.article(t, "Two", model.StatusDraft, nil, nil, nil)

	w := env.do("GET", "/admin/api/status", "", asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var status service.SystemStatus
	decode(t, w, &status)
	if status.TotalArticles != 2 || status.PublishedArticles != 1 || status.DraftArticles != 1 {
		t.Errorf("Unexpected counts: %+v", status)
	}
	if !status.NextImportTime.Equal(next) {
		t.Errorf("Expected next import %v, got %v", next, status.NextImportTime)
	}
}
