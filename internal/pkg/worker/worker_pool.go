package worker

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "sync"
    "time"

    "github.com/PuerkitoBio/goquery"
    "go.uber.org/zap"

    "webcorpus/internal/pkg/extractor"
    "webcorpus/internal/pkg/langid"
    "webcorpus/internal/pkg/logger"
    "webcorpus/internal/pkg/metrics"
    "webcorpus/internal/pkg/models"
    "webcorpus/internal/pkg/queue"
    "webcorpus/internal/pkg/segment"
    "webcorpus/internal/pkg/writer"
)

// Thresholds for the generous display filter: when a document is kept,
// even weak detections are worth showing in its detected_languages map.
const (
    displayProbabilityThreshold = 0.05
    displayProportionThreshold  = 0.005
)

// Floors below which a document counts as having no extractable content.
const (
    minTokensPerSentence = 10
    minChars             = 20
)

// Manages a pool of workers that turn stored pages from the queue into
// corpus documents in parallel
type WorkerPool struct {
    numWorkers int
    queue      *queue.Queue
    out        *writer.Writer
    wg         sync.WaitGroup
}

// Creates a new worker pool with the specified number of workers
func NewWorkerPool(numWorkers int, queue *queue.Queue, out *writer.Writer) *WorkerPool {
    return &WorkerPool{
        numWorkers: numWorkers,
        queue:      queue,
        out:        out,
    }
}

// Launches the worker goroutines
func (wp *WorkerPool) Start(ctx context.Context) {
    logger.Log.Info("Starting worker pool", zap.Int("workers", wp.numWorkers))

    for i := 0; i < wp.numWorkers; i++ {
        wp.wg.Add(1)
        go wp.runWorker(ctx, i)
    }
}

// Blocks until all workers have finished
func (wp *WorkerPool) Wait() {
    wp.wg.Wait()
}

// The main loop for each worker goroutine. Each worker owns a strategy
// cache, so segmenters are rebuilt per worker, not per document.
func (wp *WorkerPool) runWorker(ctx context.Context, id int) {
    defer wp.wg.Done()

    logger.Log.Info("Worker started", zap.Int("worker_id", id))
    var cache segment.Cache

    for {
        select {
        case <-ctx.Done():
            logger.Log.Info("Worker received stop signal", zap.Int("worker_id", id))
            return
        default:
            page, err := wp.queue.Remove()
            if errors.Is(err, queue.ErrClosed) {
                logger.Log.Info("Queue drained, worker exiting", zap.Int("worker_id", id))
                return
            }
            if err != nil {
                // Queue is momentarily empty; wait for the producer
                time.Sleep(200 * time.Millisecond)
                continue
            }

            if err := wp.extract(&cache, page); err != nil {
                // One bad page never stops the run
                logger.Log.Warn("Failed to extract page",
                    zap.Int("worker_id", id),
                    zap.String("url", page.URL),
                    zap.Error(err))
            } else {
                logger.Log.Debug("Extracted page",
                    zap.Int("worker_id", id),
                    zap.String("url", page.URL))
            }
        }
    }
}

// Runs the full extraction pipeline for one stored page: paragraph
// extraction, English-paragraph filtering, language identification,
// segmentation and tokenization, then classification into the kept,
// language-filtered or empty bucket.
func (wp *WorkerPool) extract(cache *segment.Cache, page models.StoredPage) error {
    filename, ok := writer.Filename(page.URL)
    if !ok {
        return fmt.Errorf("cannot derive filename from url %s", page.URL)
    }

    doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.OriginalHTML))
    if err != nil {
        return fmt.Errorf("failed to parse stored html: %w", err)
    }

    paragraphs := extractor.Paragraphs(doc, page.ISO)

    var removed []langid.RemovedParagraph
    if page.ISO != "eng" {
        paragraphs, removed = langid.FilterEnglishParagraphs(paragraphs)
        metrics.ParagraphsRemoved.Add(float64(len(removed)))
    }

    started := time.Now()
    predictions := langid.Identify(strings.Join(paragraphs, " "))
    metrics.LanguageIDLatency.Observe(time.Since(started).Seconds())

    predicted := langid.PredictLanguage(page.ISO, predictions)
    detected := predictions
    if predicted != "eng" && predicted != "mul" {
        // Kept documents get a generous view of what else was detected
        detected = langid.FilterConfident(predictions,
            displayProbabilityThreshold, displayProportionThreshold)
    }

    segmenter, tokenizer := cache.Strategies(page.ISO)
    var sentences [][]string
    for _, paragraph := range paragraphs {
        if segmented := segmenter.Segment(paragraph); len(segmented) > 0 {
            sentences = append(sentences, segmented)
        }
    }
    var tokens [][][]string
    for _, paragraph := range sentences {
        sentenceTokens := make([][]string, 0, len(paragraph))
        for _, sentence := range paragraph {
            sentenceTokens = append(sentenceTokens, tokenizer.Tokenize(sentence))
        }
        tokens = append(tokens, sentenceTokens)
    }

    output := models.Document{
        Filename:               filename,
        URL:                    page.URL,
        URLOrigin:              page.Prov.Sitemap.URL,
        ContentType:            page.ContentType,
        SiteLanguage:           page.ISO,
        TimePublished:          formatTime(page.DatePublished),
        TimeModified:           formatTime(page.DateModified),
        TimeRetrieved:          formatTime(&page.TimeRetrieved),
        Title:                  extractor.Title(doc, page.ISO),
        Authors:                page.Authors,
        Paragraphs:             paragraphs,
        ParallelEnglishArticle: extractor.ParallelArticle(doc, page.ISO),
        DetectedLanguages:      detected,
        PredictedLanguage:      predicted,
        Sentences:              sentences,
        Tokens:                 tokens,
        Keywords:               page.Keywords,
        Section:                page.Section,
    }
    output.ComputeCounts()

    if len(removed) > 0 {
        if err := wp.out.WriteRemovedParagraphs(output, removed); err != nil {
            return err
        }
    }

    return wp.classify(output, page.ISO, detected)
}

// Routes a document to its output bucket. A detected language that
// contradicts the site label wins over everything; then documents with
// essentially no content; everything else is kept corpus material.
func (wp *WorkerPool) classify(doc models.Document, iso string, detected map[string]models.LanguagePrediction) error {
    switch {
    case (doc.PredictedLanguage == "eng" && iso != "eng") ||
        doc.PredictedLanguage == "mul" ||
        (iso == "eng" && langid.ConfidentSingleLanguage(detected) != "eng"):
        metrics.DocumentsLanguageFiltered.Inc()
        return wp.out.WriteLanguageFiltered(doc)
    case langid.ReasonableLen(doc.Tokens, doc.NChars, minTokensPerSentence, minChars):
        metrics.DocumentsKept.Inc()
        return wp.out.WriteKept(doc)
    default:
        metrics.DocumentsEmpty.Inc()
        return wp.out.WriteEmpty(doc)
    }
}

func formatTime(t *time.Time) string {
    if t == nil || t.IsZero() {
        return ""
    }
    return t.Format(time.RFC3339)
}
