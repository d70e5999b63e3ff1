package store

import (
    "context"
    "fmt"
    "time"

    "go.mongodb.org/mongo-driver/bson"
    "go.mongodb.org/mongo-driver/mongo"
    "go.mongodb.org/mongo-driver/mongo/options"
    "go.uber.org/zap"

    "webcorpus/internal/pkg/config"
    "webcorpus/internal/pkg/logger"
    "webcorpus/internal/pkg/metrics"
    "webcorpus/internal/pkg/models"
)

// Store wraps the pages collection. Every fetched page becomes a new
// document with latest=true; earlier documents for the same page are
// demoted rather than overwritten, so the collection keeps the full
// fetch history.
type Store struct {
    client    *mongo.Client
    pages     *mongo.Collection
    batchSize int32
}

func New(ctx context.Context, cfg *config.Config) (*Store, error) {
    client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
    if err != nil {
        return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
    }
    if err := client.Ping(ctx, nil); err != nil {
        return nil, fmt.Errorf("failed to ping mongodb: %w", err)
    }
    return &Store{
        client:    client,
        pages:     client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection),
        batchSize: int32(cfg.BatchSize),
    }, nil
}

func (s *Store) Close(ctx context.Context) error {
    return s.client.Disconnect(ctx)
}

// Creates the indices the extraction queries depend on. Index creation
// is idempotent, so this runs after every crawl.
func (s *Store) CreateIndices(ctx context.Context) error {
    indices := []mongo.IndexModel{
        {Keys: bson.D{
            {Key: "has_ptags", Value: 1},
            {Key: "success", Value: 1},
            {Key: "language", Value: 1},
        }},
        {Keys: bson.D{{Key: "language", Value: 1}}},
        {Keys: bson.D{{Key: "iso", Value: 1}}},
        {Keys: bson.D{
            {Key: "language", Value: 1},
            {Key: "content_type", Value: 1},
        }},
        {Keys: bson.D{{Key: "canonical_link", Value: "hashed"}}},
        {Keys: bson.D{{Key: "url", Value: 1}}},
    }
    if _, err := s.pages.Indexes().CreateMany(ctx, indices); err != nil {
        return fmt.Errorf("failed to create indices: %w", err)
    }
    return nil
}

// Inserts a freshly fetched page and, when the fetch succeeded and
// carries a canonical link, demotes every earlier document for the same
// page. Failed fetches are recorded without demotion so the last
// successful record keeps its latest flag. The ids to demote are
// collected before the insert so the new document is never demoted
// itself. The two steps are not atomic; a reader in between sees two
// latest documents for an instant, which the extraction stage tolerates.
func (s *Store) UpsertPage(ctx context.Context, page models.StoredPage) error {
    var previous []any
    if dedupEligible(page) {
        var err error
        previous, err = s.previousIDs(ctx, page)
        if err != nil {
            return err
        }
    }

    page.Latest = true
    if _, err := s.pages.InsertOne(ctx, page); err != nil {
        // Pages with undecodable content still get a provenance record
        // so the crawl history stays complete. The degraded record
        // carries latest=false and demotes nothing, so the last
        // error-free version of the page stays current.
        logger.Log.Warn("Falling back to provenance-only insert",
            zap.String("url", page.URL),
            zap.Error(err))
        degraded := page.ProvenanceOnly(err.Error())
        if _, err := s.pages.InsertOne(ctx, degraded); err != nil {
            metrics.InsertFailures.Inc()
            return fmt.Errorf("failed to insert page %s: %w", page.URL, err)
        }
        metrics.DegradedInserts.Inc()
        return nil
    }
    metrics.PagesInserted.Inc()

    if len(previous) > 0 {
        result, err := s.pages.UpdateMany(ctx,
            bson.M{"_id": bson.M{"$in": previous}},
            bson.M{"$set": bson.M{"latest": false}})
        if err != nil {
            return fmt.Errorf("failed to demote previous fetches of %s: %w", page.URL, err)
        }
        metrics.LatestFlagFlips.Add(float64(result.ModifiedCount))
    }
    return nil
}

// Only successful fetches with a canonical link participate in the
// latest-flag protocol. Anything else is appended to the history as is.
func dedupEligible(page models.StoredPage) bool {
    return page.Success && page.CanonicalLink != ""
}

// Collects the _ids of every stored document matching the page's
// canonical link or URL.
func (s *Store) previousIDs(ctx context.Context, page models.StoredPage) ([]any, error) {
    clauses := []bson.M{{"url": page.URL}}
    if page.CanonicalLink != "" {
        clauses = append(clauses, bson.M{"canonical_link": page.CanonicalLink})
    }

    cursor, err := s.pages.Find(ctx,
        bson.M{"$or": clauses},
        options.Find().SetProjection(bson.M{"_id": 1}))
    if err != nil {
        return nil, fmt.Errorf("failed to look up previous fetches of %s: %w", page.URL, err)
    }
    defer cursor.Close(ctx)

    var ids []any
    for cursor.Next(ctx) {
        var doc struct {
            ID any `bson:"_id"`
        }
        if err := cursor.Decode(&doc); err != nil {
            return nil, err
        }
        ids = append(ids, doc.ID)
    }
    return ids, cursor.Err()
}

// Query narrows the extraction stage's page selection.
type Query struct {
    ISO         string
    ContentType string
    Start       *time.Time
    End         *time.Time
}

// Streams the latest successful fetch of every page in a language that
// has usable paragraph content. Optional content type and retrieval
// date bounds narrow the selection further.
func (s *Store) FindLatest(ctx context.Context, q Query) (*mongo.Cursor, error) {
    filter := bson.M{
        "iso":       q.ISO,
        "success":   true,
        "has_ptags": true,
        "latest":    true,
    }
    if q.ContentType != "" {
        filter["content_type"] = q.ContentType
    }
    if q.Start != nil || q.End != nil {
        bounds := bson.M{}
        if q.Start != nil {
            bounds["$gte"] = *q.Start
        }
        if q.End != nil {
            bounds["$lte"] = *q.End
        }
        filter["time_retrieved"] = bounds
    }

    // Stored pages carry full HTML bodies, so keep server round trips
    // small and steady rather than letting the driver pick.
    cursor, err := s.pages.Find(ctx, filter, options.Find().SetBatchSize(s.batchSize))
    if err != nil {
        return nil, fmt.Errorf("failed to query latest pages for %s: %w", q.ISO, err)
    }
    return cursor, nil
}
