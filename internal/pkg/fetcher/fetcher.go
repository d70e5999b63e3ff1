package fetcher

import (
    "context"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "sync"
    "time"

    "go.uber.org/zap"
    "golang.org/x/sync/semaphore"
    "golang.org/x/time/rate"

    "webcorpus/internal/pkg/config"
    "webcorpus/internal/pkg/logger"
    "webcorpus/internal/pkg/metrics"
    "webcorpus/internal/pkg/models"
)

// Issues many HTTP requests with bounded concurrency: a global in-flight
// semaphore plus a per-host connection cap. A fetch never returns an
// error past this boundary; failures are recorded on the FetchResult.
type Fetcher struct {
    client       *http.Client
    userAgent    string
    sem          *semaphore.Weighted
    perHostLimit int64
    limiter      *rate.Limiter

    mu    sync.Mutex
    hosts map[string]*semaphore.Weighted
}

// Creates a new Fetcher from config. No per-request timeout is set beyond
// the HTTP client's default, so a hung request occupies one concurrency
// slot until it resolves or errors.
func New(cfg *config.Config) *Fetcher {
    f := &Fetcher{
        client:       http.DefaultClient,
        userAgent:    cfg.UserAgent,
        sem:          semaphore.NewWeighted(int64(cfg.NumConnections)),
        perHostLimit: int64(cfg.PerHostLimit),
        hosts:        make(map[string]*semaphore.Weighted),
    }
    if cfg.FetchRPS > 0 {
        f.limiter = rate.NewLimiter(rate.Limit(cfg.FetchRPS), cfg.NumConnections)
    }
    return f
}

// Fetches every page and hands each result to the sink, success or
// failure. All outstanding fetches are awaited before FetchAll returns.
func (f *Fetcher) FetchAll(ctx context.Context, pages []models.Page, crawlID string, sink func(models.StoredPage)) {
    var wg sync.WaitGroup
    for _, page := range pages {
        if err := f.sem.Acquire(ctx, 1); err != nil {
            // Context cancelled; remaining pages are not attempted.
            break
        }
        wg.Add(1)
        go func(page models.Page) {
            defer wg.Done()
            defer f.sem.Release(1)
            sink(f.fetchPage(ctx, page, crawlID))
        }(page)
    }
    wg.Wait()
}

// Fetches one page and assembles the record to persist. Any error is
// captured as success=false with a message so the crawl history keeps
// failed attempts too.
func (f *Fetcher) fetchPage(ctx context.Context, page models.Page, crawlID string) models.StoredPage {
    result := f.requestPage(ctx, page.URL)

    stored := models.StoredPage{
        Page:          page,
        OriginalHTML:  result.Content,
        Success:       result.Success,
        ErrorMessage:  result.ErrorMessage,
        Language:      page.Prov.Sitemap.Language,
        ISO:           page.Prov.Sitemap.ISO,
        TimeRetrieved: result.TimeRetrieved,
        CrawlID:       crawlID,
    }
    if result.Content != "" {
        stored.PageMeta = ParseMeta(result.Content, page.URL)
    }
    return stored
}

func (f *Fetcher) requestPage(ctx context.Context, pageURL string) models.FetchResult {
    result := models.FetchResult{TimeRetrieved: time.Now().UTC()}
    if pageURL == "" {
        result.ErrorMessage = "Missing url"
        return result
    }

    if f.limiter != nil {
        if err := f.limiter.Wait(ctx); err != nil {
            result.ErrorMessage = err.Error()
            return result
        }
    }
    release, err := f.acquireHost(ctx, pageURL)
    if err != nil {
        result.ErrorMessage = err.Error()
        return result
    }
    defer release()

    start := time.Now()
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
    if err != nil {
        result.ErrorMessage = err.Error()
        metrics.FetchFailures.Inc()
        return result
    }
    req.Header.Set("User-Agent", f.userAgent)

    resp, err := f.client.Do(req)
    if err != nil {
        result.ErrorMessage = err.Error()
        metrics.FetchFailures.Inc()
        return result
    }
    defer resp.Body.Close()

    if resp.StatusCode >= 400 {
        result.ErrorMessage = fmt.Sprintf("%d %s for url %s", resp.StatusCode, http.StatusText(resp.StatusCode), pageURL)
        metrics.FetchFailures.Inc()
        return result
    }

    body, err := io.ReadAll(resp.Body)
    if err != nil {
        result.ErrorMessage = err.Error()
        metrics.FetchFailures.Inc()
        return result
    }

    metrics.FetchLatency.Observe(time.Since(start).Seconds())
    metrics.PagesFetched.Inc()
    logger.Log.Debug("Got response",
        zap.Int("status", resp.StatusCode),
        zap.String("url", pageURL))

    result.Success = true
    result.Content = string(body)
    return result
}

// Caps concurrent requests per host. Limiters are created lazily, one per
// host seen during the crawl.
func (f *Fetcher) acquireHost(ctx context.Context, pageURL string) (func(), error) {
    parsed, err := url.Parse(pageURL)
    if err != nil {
        return nil, err
    }
    host := parsed.Hostname()

    f.mu.Lock()
    sem, ok := f.hosts[host]
    if !ok {
        sem = semaphore.NewWeighted(f.perHostLimit)
        f.hosts[host] = sem
    }
    f.mu.Unlock()

    if err := sem.Acquire(ctx, 1); err != nil {
        return nil, err
    }
    return func() { sem.Release(1) }, nil
}
