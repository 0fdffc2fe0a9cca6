package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"jbt-blog/internal/model"
)

const guidRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Example</title>
  <link>https://example.com</link>
  <description>Items without links</description>
  <item>
    <title>Guid only</title>
    <guid isPermaLink="false">urn:example:42</guid>
    <description>body</description>
  </item>
  <item>
    <title>Anonymous</title>
    <description>no way to tell apart</description>
  </item>
</channel>
</rss>`

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Example</title>
  <link>https://example.com</link>
  <description>Example feed</description>
  <item>
    <title>First post</title>
    <link>https://example.com/first</link>
    <description><![CDATA[<p>Hello <strong>world</strong></p>]]></description>
    <category>Go</category>
    <category>Web</category>
    <pubDate>Mon, 06 Jan 2025 10:00:00 +0000</pubDate>
  </item>
  <item>
    <title>Second post</title>
    <link>https://example.com/second</link>
    <description><![CDATA[<h2>Title</h2><ul><li>one</li></ul>]]></description>
    <category>Go</category>
  </item>
</channel>
</rss>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/rss", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testRSS))
	})
	mux.HandleFunc("/guid", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(guidRSS))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestImportURLCreatesDrafts(t *testing.T) {
	db := setupTestDB(t)
	srv := newFeedServer(t)
	svc := NewFeedService(db, zerolog.Nop())
	ctx := context.Background()

	n, err := svc.ImportURL(ctx, srv.URL+"/rss")
	if err != nil {
		t.Fatalf("ImportURL failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("Expected 2 imported articles, got %d", n)
	}

	var first model.Article
	if err := db.Preload("Tags").Where("title = ?", "First post").First(&first).Error; err != nil {
		t.Fatalf("Imported article not found: %v", err)
	}
	if first.Status != model.StatusDraft || first.PubTime != nil {
		t.Errorf("Imported article must be a draft without pub time, got %s %v", first.Status, first.PubTime)
	}
	if !strings.Contains(first.Content, "**world**") {
		t.Errorf("Expected markdown content, got %q", first.Content)
	}
	if first.SourceLink == nil || *first.SourceLink != "https://example.com/first" {
		t.Errorf("Unexpected source link %v", first.SourceLink)
	}
	if len(first.Tags) != 2 {
		t.Errorf("Expected 2 tags from categories, got %+v", first.Tags)
	}
	if first.CreatedTime.Year() != 2025 || first.CreatedTime.Day() != 6 {
		t.Errorf("Expected created time from pubDate, got %v", first.CreatedTime)
	}

	again, err := svc.ImportURL(ctx, srv.URL+"/rss")
	if err != nil {
		t.Fatalf("Second import failed: %v", err)
	}
	if again != 0 {
		t.Errorf("Expected duplicates to be skipped, got %d new", again)
	}

	var tags int64
	db.Model(&model.Tag{}).Count(&tags)
	if tags != 2 {
		t.Errorf("Expected shared tags to be reused, got %d", tags)
	}
}

func TestFetchAllFeedsContinuesAfterFailure(t *testing.T) {
	db := setupTestDB(t)
	srv := newFeedServer(t)
	svc := NewFeedService(db, zerolog.Nop())
	ctx := context.Background()

	if err := svc.Create(ctx, &model.Feed{Name: "broken", URL: srv.URL + "/broken", Enabled: true}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Create(ctx, &model.Feed{Name: "good", URL: srv.URL + "/rss", Enabled: true}); err != nil {
		t.Fatal(err)
	}

	n, err := svc.FetchAllFeeds(ctx)
	if err == nil {
		t.Error("Expected error from broken feed")
	}
	if n != 2 {
		t.Errorf("Expected good feed to be imported, got %d", n)
	}

	feeds, _ := svc.List(ctx)
	if len(feeds) != 2 {
		t.Errorf("Expected 2 feeds, got %d", len(feeds))
	}
	if err := svc.Delete(ctx, feeds[0].ID); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, feeds[0].ID); !IsNotFound(err) {
		t.Errorf("Expected deleted feed to be gone, got %v", err)
	}
}

func TestFetchAllFeedsSkipsDisabled(t *testing.T) {
	db := setupTestDB(t)
	srv := newFeedServer(t)
	svc := NewFeedService(db, zerolog.Nop())
	ctx := context.Background()

	feed := &model.Feed{Name: "good", URL: srv.URL + "/rss", Enabled: true}
	if err := svc.Create(ctx, feed); err != nil {
		t.Fatal(err)
	}
	feed.Enabled = false
	if err := svc.Update(ctx, feed); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := svc.Get(ctx, feed.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Enabled {
		t.Error("Expected feed to stay disabled after update")
	}

	n, err := svc.FetchAllFeeds(ctx)
	if err != nil || n != 0 {
		t.Errorf("Disabled feed must not be fetched, got n=%d err=%v", n, err)
	}
}

func TestImportURLDedupesByGUID(t *testing.T) {
	db := setupTestDB(t)
	srv := newFeedServer(t)
	svc := NewFeedService(db, zerolog.Nop())
	ctx := context.Background()

	n, err := svc.ImportURL(ctx, srv.URL+"/guid")
	if err != nil {
		t.Fatalf("ImportURL failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("Expected only the guid item to be imported, got %d", n)
	}

	var article model.Article
	if err := db.Where("title = ?", "Guid only").First(&article).Error; err != nil {
		t.Fatalf("Imported article not found: %v", err)
	}
	if article.SourceLink == nil || *article.SourceLink != "urn:example:42" {
		t.Errorf("Expected guid as source link, got %v", article.SourceLink)
	}

	again, err := svc.ImportURL(ctx, srv.URL+"/guid")
	if err != nil {
		t.Fatalf("Second import failed: %v", err)
	}
	if again != 0 {
		t.Errorf("Expected guid duplicate to be skipped, got %d new", again)
	}

	var total int64
	db.Model(&model.Article{}).Count(&total)
	if total != 1 {
		t.Errorf("Expected 1 article, got %d", total)
	}
}
