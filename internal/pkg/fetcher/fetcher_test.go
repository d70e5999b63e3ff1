package fetcher

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "sync"
    "testing"

    "webcorpus/internal/pkg/config"
    "webcorpus/internal/pkg/models"
)

func testFetcher() *Fetcher {
    return New(&config.Config{
        UserAgent:      "webcorpus-test",
        NumConnections: 4,
        PerHostLimit:   2,
    })
}

func pageFor(url string) models.Page {
    var page models.Page
    page.URL = url
    page.Prov.Sitemap.ISO = "hau"
    page.Prov.Sitemap.Language = "Hausa"
    return page
}

func collect(f *Fetcher, pages []models.Page) []models.StoredPage {
    var mu sync.Mutex
    var stored []models.StoredPage
    f.FetchAll(context.Background(), pages, "run-1", func(p models.StoredPage) {
        mu.Lock()
        stored = append(stored, p)
        mu.Unlock()
    })
    return stored
}

func TestFetchAllRecordsSuccess(t *testing.T) {
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Header.Get("User-Agent") != "webcorpus-test" {
            t.Errorf("Expected the configured user agent, got '%s'", r.Header.Get("User-Agent"))
        }
        w.Write([]byte(`<html><head><meta name="title" content="Labari"></head><body><p>abc</p></body></html>`))
    }))
    defer server.Close()

    stored := collect(testFetcher(), []models.Page{pageFor(server.URL + "/a/labari.html")})
    if len(stored) != 1 {
        t.Fatalf("Expected 1 stored page, got %d", len(stored))
    }
    page := stored[0]
    if !page.Success {
        t.Errorf("Expected success, got error '%s'", page.ErrorMessage)
    }
    if !strings.Contains(page.OriginalHTML, "Labari") {
        t.Error("Expected the response body to be stored")
    }
    if page.Title != "Labari" {
        t.Errorf("Expected metadata to be parsed, got title '%s'", page.Title)
    }
    if page.ISO != "hau" || page.Language != "Hausa" {
        t.Errorf("Expected sitemap language carried over, got %s/%s", page.ISO, page.Language)
    }
    if page.CrawlID != "run-1" {
        t.Errorf("Expected crawl id 'run-1', got '%s'", page.CrawlID)
    }
    if page.TimeRetrieved.IsZero() {
        t.Error("Expected a retrieval timestamp")
    }
}

func TestFetchAllRecordsHTTPFailure(t *testing.T) {
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        http.NotFound(w, r)
    }))
    defer server.Close()

    stored := collect(testFetcher(), []models.Page{pageFor(server.URL + "/gone")})
    if len(stored) != 1 {
        t.Fatalf("Expected 1 stored page, got %d", len(stored))
    }
    if stored[0].Success {
        t.Error("Expected a failed fetch for a 404 response")
    }
    if !strings.Contains(stored[0].ErrorMessage, "404") {
        t.Errorf("Expected the status in the error message, got '%s'", stored[0].ErrorMessage)
    }
}

func TestFetchAllRecordsMissingURL(t *testing.T) {
    stored := collect(testFetcher(), []models.Page{pageFor("")})
    if len(stored) != 1 {
        t.Fatalf("Expected 1 stored page, got %d", len(stored))
    }
    if stored[0].Success || stored[0].ErrorMessage != "Missing url" {
        t.Errorf("Expected a missing-url failure, got '%s'", stored[0].ErrorMessage)
    }
}
