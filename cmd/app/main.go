package main

import (
    "context"
    "errors"
    "fmt"
    "os"
    "os/signal"
    "strings"
    "syscall"
    "time"

    "github.com/araddon/dateparse"
    "github.com/google/uuid"
    "github.com/spf13/cobra"
    "go.uber.org/zap"

    "webcorpus/internal/pkg/config"
    "webcorpus/internal/pkg/fetcher"
    "webcorpus/internal/pkg/logger"
    "webcorpus/internal/pkg/metrics"
    "webcorpus/internal/pkg/models"
    "webcorpus/internal/pkg/queue"
    "webcorpus/internal/pkg/sitemap"
    "webcorpus/internal/pkg/store"
    "webcorpus/internal/pkg/worker"
    "webcorpus/internal/pkg/writer"
)

// Wire-service bylines we can't redistribute.
var bylinesNotAllowed = []string{
    "AP",
    "Associated Press",
    "AFP",
    "Agence France-Presse",
    "Reuters",
}

func main() {
    root := &cobra.Command{
        Use:          "webcorpus",
        Short:        "Builds a multilingual text corpus from sitemap-indexed news sites",
        SilenceUsage: true,
    }
    root.AddCommand(scrapeCommand(), extractCommand())
    if err := root.Execute(); err != nil {
        os.Exit(1)
    }
}

func setup(parent context.Context) (*config.Config, context.Context, context.CancelFunc, error) {
    cfg, err := config.LoadConfig()
    if err != nil {
        return nil, nil, nil, err
    }
    if err := logger.InitLogger(cfg.LogLevel, true); err != nil {
        return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
    }
    metrics.StartMonitoring(cfg.MetricsAddr)
    ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
    return cfg, ctx, stop, nil
}

func scrapeCommand() *cobra.Command {
    var languages, excluded []string

    cmd := &cobra.Command{
        Use:   "scrape FILEMAP SITEMAP_DIR",
        Short: "Harvests page URLs from sitemaps and fetches every page into the store",
        Args:  cobra.ExactArgs(2),
        RunE: func(cmd *cobra.Command, args []string) error {
            cfg, ctx, stop, err := setup(cmd.Context())
            if err != nil {
                return err
            }
            defer stop()

            st, err := store.New(ctx, cfg)
            if err != nil {
                return err
            }
            defer st.Close(context.Background())

            filemap, err := sitemap.ReadFilemap(args[0])
            if err != nil {
                return err
            }

            // One crawl id ties every page of this run together.
            crawlID := uuid.NewString()
            fetch := fetcher.New(cfg)

            for iso, files := range filemap {
                if !selected(iso, languages, excluded) {
                    continue
                }
                pages := sitemap.PagesFromSitemaps(files, args[1])
                logger.Log.Info("Fetching pages",
                    zap.String("iso", iso),
                    zap.Int("pages", len(pages)),
                    zap.String("crawl_id", crawlID))

                fetch.FetchAll(ctx, pages, crawlID, func(page models.StoredPage) {
                    if err := st.UpsertPage(ctx, page); err != nil {
                        logger.Log.Error("Failed to store page",
                            zap.String("url", page.URL),
                            zap.Error(err))
                    }
                })
                if ctx.Err() != nil {
                    break
                }
            }

            if err := st.CreateIndices(ctx); err != nil {
                return err
            }
            logger.Log.Info("Crawl complete", zap.String("crawl_id", crawlID))
            return nil
        },
    }

    cmd.Flags().StringSliceVar(&languages, "languages", nil, "ISO 639-3 codes to crawl (default all in the filemap)")
    cmd.Flags().StringSliceVar(&excluded, "exclude-languages", nil, "ISO 639-3 codes to skip")
    return cmd
}

func extractCommand() *cobra.Command {
    var languages []string
    var contentType, startDate, endDate string

    cmd := &cobra.Command{
        Use:   "extract OUTDIR",
        Short: "Turns stored pages into corpus documents on disk",
        Args:  cobra.ExactArgs(1),
        RunE: func(cmd *cobra.Command, args []string) error {
            cfg, ctx, stop, err := setup(cmd.Context())
            if err != nil {
                return err
            }
            defer stop()

            query := store.Query{ContentType: contentType}
            if query.Start, err = parseDate(startDate); err != nil {
                return err
            }
            if query.End, err = parseDate(endDate); err != nil {
                return err
            }

            st, err := store.New(ctx, cfg)
            if err != nil {
                return err
            }
            defer st.Close(context.Background())

            q, err := queue.CreateQueue(cfg.QueueCapacity)
            if err != nil {
                return err
            }
            pool := worker.NewWorkerPool(cfg.NumWorkers, q, writer.New(args[0]))
            pool.Start(ctx)

            for _, iso := range languages {
                query.ISO = iso
                if err := producePages(ctx, st, q, query); err != nil {
                    logger.Log.Error("Failed to read stored pages",
                        zap.String("iso", iso),
                        zap.Error(err))
                }
                if ctx.Err() != nil {
                    break
                }
            }

            q.Close()
            pool.Wait()
            logger.Log.Info("Extraction complete")
            return nil
        },
    }

    cmd.Flags().StringSliceVar(&languages, "languages", nil, "ISO 639-3 codes to extract")
    cmd.Flags().StringVar(&contentType, "content-type", "", "only extract pages of this content type")
    cmd.Flags().StringVar(&startDate, "start-date", "", "only extract pages retrieved on or after this date")
    cmd.Flags().StringVar(&endDate, "end-date", "", "only extract pages retrieved on or before this date")
    _ = cmd.MarkFlagRequired("languages")
    return cmd
}

// Streams one language's pages from the store into the queue, skipping
// wire-service content. Backpressure comes from the bounded queue.
func producePages(ctx context.Context, st *store.Store, q *queue.Queue, query store.Query) error {
    cursor, err := st.FindLatest(ctx, query)
    if err != nil {
        return err
    }
    defer cursor.Close(ctx)

    for cursor.Next(ctx) {
        var page models.StoredPage
        if err := cursor.Decode(&page); err != nil {
            logger.Log.Warn("Failed to decode stored page", zap.Error(err))
            continue
        }
        if !authorAllowed(page) {
            continue
        }

        for {
            err := q.Insert(page)
            if err == nil {
                break
            }
            if !errors.Is(err, queue.ErrFull) {
                return err
            }
            // Queue is full; wait for workers to catch up
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(100 * time.Millisecond):
            }
        }
    }
    return cursor.Err()
}

// Checks for authors we can't distribute, like AFP and AP. The byline
// string holds commas, slashes and sometimes several authors, so this is
// a substring check rather than a parse. Wire-explainer titles ("AP
// explains: ...") are caught separately.
func authorAllowed(page models.StoredPage) bool {
    byline, _ := page.UtagData["byline"].(string)
    title, _ := page.UtagData["page_title"].(string)
    if strings.HasPrefix(title, "AP ") || strings.HasPrefix(title, "AFP ") {
        return false
    }
    for _, bad := range bylinesNotAllowed {
        if byline != "" && strings.Contains(byline, bad) {
            return false
        }
        for _, author := range page.Authors {
            if strings.Contains(author, bad) {
                return false
            }
        }
    }
    return true
}

func selected(iso string, include, exclude []string) bool {
    for _, ex := range exclude {
        if ex == iso {
            return false
        }
    }
    if len(include) == 0 {
        return true
    }
    for _, in := range include {
        if in == iso {
            return true
        }
    }
    return false
}

func parseDate(s string) (*time.Time, error) {
    if s == "" {
        return nil, nil
    }
    t, err := dateparse.ParseAny(s)
    if err != nil {
        return nil, fmt.Errorf("unparseable date %q: %w", s, err)
    }
    return &t, nil
}
